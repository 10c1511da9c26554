package dashboard

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/dataset"
)

const (
	queryDateLayout = "2006-01-02"

	paramCategory = "category"
	paramChannel  = "channel"
	paramAuthor   = "author"
	paramFrom     = "from"
	paramTo       = "to"
	paramQuery    = "q"
	paramPage     = "page"
	paramFormat   = "format"
	paramDataset  = "dataset"
)

// FilterState echoes the raw filter inputs so forms and clients can rebuild
// the current selection.
type FilterState struct {
	Category       string `json:"category"`
	Secondary      string `json:"secondary"`
	SecondaryParam string `json:"secondary_param"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	Query          string `json:"q,omitempty"`
}

// parseCriteria reads the filter parameters. secondaryParam names the query
// key that selects the secondary dimension ("channel" or "author").
func parseCriteria(r *http.Request, secondaryParam string) (dataset.Criteria, FilterState, error) {
	q := r.URL.Query()

	state := FilterState{
		Category:       selection(q.Get(paramCategory)),
		Secondary:      selection(q.Get(secondaryParam)),
		SecondaryParam: secondaryParam,
		From:           strings.TrimSpace(q.Get(paramFrom)),
		To:             strings.TrimSpace(q.Get(paramTo)),
		Query:          strings.TrimSpace(q.Get(paramQuery)),
	}

	from, to, err := parseRange(state.From, state.To)
	if err != nil {
		return dataset.Criteria{}, state, err
	}

	return dataset.Criteria{
		From:      from,
		To:        to,
		Category:  state.Category,
		Secondary: state.Secondary,
		Keyword:   state.Query,
	}, state, nil
}

func selection(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dataset.All
	}

	return raw
}

// parseRange parses the inclusive bounds. A date-only upper bound is widened
// to the last instant of that day.
func parseRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if fromStr != "" {
		t, _, err := parseTime(fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid from: %w", apperrors.ErrInvalidInput, err)
		}

		from = &t
	}

	if toStr != "" {
		t, dateOnly, err := parseTime(toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid to: %w", apperrors.ErrInvalidInput, err)
		}

		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}

		to = &t
	}

	return from, to, nil
}

func parseTime(value string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}

	t, err = time.Parse(queryDateLayout, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse time %q: %w", value, err)
	}

	return t, true, nil
}

// parsePage reads the 1-based page number and clamps it to [1, totalPages].
func parsePage(r *http.Request, totalPages int) int {
	val := strings.TrimSpace(r.URL.Query().Get(paramPage))
	if val == "" {
		return 1
	}

	num, err := strconv.Atoi(val)
	if err != nil || num < 1 {
		return 1
	}

	if num > totalPages {
		return totalPages
	}

	return num
}

func wantsHTML(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get(paramFormat)) {
	case "html":
		return true
	case "json":
		return false
	}

	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// pageURL rebuilds the current request URL pointing at another page.
func pageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	q.Set(paramPage, strconv.Itoa(page))

	return r.URL.Path + "?" + q.Encode()
}
