package dashboard

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/dataset"
)

func TestParseRange(t *testing.T) {
	endOfDay := time.Date(2024, 1, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	tests := []struct {
		name     string
		from, to string
		wantFrom *time.Time
		wantTo   *time.Time
		wantErr  bool
	}{
		{name: "empty"},
		{name: "date only", from: "2024-01-01", to: "2024-01-31", wantFrom: ptrTime(day(2024, 1, 1)), wantTo: &endOfDay},
		{name: "rfc3339 kept exact", to: "2024-01-31T12:00:00Z", wantTo: ptrTime(time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC))},
		{name: "bad from", from: "31/01/2024", wantErr: true},
		{name: "bad to", to: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseRange(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidInput) {
					t.Fatalf("parseRange error = %v, want ErrInvalidInput", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("parseRange unexpected error: %v", err)
			}

			assertTimePtr(t, "from", tt.wantFrom, from)
			assertTimePtr(t, "to", tt.wantTo, to)
		})
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func assertTimePtr(t *testing.T, label string, want, got *time.Time) {
	t.Helper()

	switch {
	case want == nil && got == nil:
	case want == nil || got == nil:
		t.Errorf("%s = %v, want %v", label, got, want)
	case !want.Equal(*got):
		t.Errorf("%s = %v, want %v", label, *got, *want)
	}
}

func TestParseCriteria(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/articles?category=+POLITICS+&author=&q=vote&from=2022-01-01", nil)

	c, state, err := parseCriteria(req, paramAuthor)
	if err != nil {
		t.Fatalf("parseCriteria error: %v", err)
	}

	if c.Category != "POLITICS" || c.Secondary != dataset.All || c.Keyword != "vote" {
		t.Errorf("unexpected criteria %+v", c)
	}

	if c.From == nil || c.To != nil {
		t.Errorf("unexpected bounds from=%v to=%v", c.From, c.To)
	}

	if state.SecondaryParam != paramAuthor || state.From != "2022-01-01" {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query      string
		totalPages int
		want       int
	}{
		{"", 3, 1},
		{"page=2", 3, 2},
		{"page=7", 3, 3},
		{"page=-1", 3, 1},
		{"page=x", 3, 1},
		{"page=1", 1, 1},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/articles?"+tt.query, nil)
		if got := parsePage(req, tt.totalPages); got != tt.want {
			t.Errorf("parsePage(%q, %d) = %d, want %d", tt.query, tt.totalPages, got, tt.want)
		}
	}
}

func TestWantsHTML(t *testing.T) {
	tests := []struct {
		target string
		accept string
		want   bool
	}{
		{"/videos", "", false},
		{"/videos", "text/html", true},
		{"/videos?format=html", "", true},
		{"/videos?format=json", "text/html", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		if tt.accept != "" {
			req.Header.Set("Accept", tt.accept)
		}

		if got := wantsHTML(req); got != tt.want {
			t.Errorf("wantsHTML(%s, %q) = %v, want %v", tt.target, tt.accept, got, tt.want)
		}
	}
}

func TestPageURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/articles?q=a+b&page=1", nil)

	if got := pageURL(req, 2); got != "/articles?page=2&q=a+b" {
		t.Errorf("pageURL = %q", got)
	}
}
