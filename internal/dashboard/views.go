package dashboard

import (
	"errors"
	"net/http"

	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/dataset"
)

// FilterOptions lists the values a client can offer in the filter controls.
type FilterOptions struct {
	Categories  []string `json:"categories"`
	Secondaries []string `json:"secondaries"`
	MinDate     string   `json:"min_date,omitempty"`
	MaxDate     string   `json:"max_date,omitempty"`
}

func optionsFor[R dataset.Record](t *dataset.Table[R]) FilterOptions {
	opts := FilterOptions{
		Categories:  dataset.WithAll(t.Categories()),
		Secondaries: dataset.WithAll(t.Secondaries()),
	}

	if earliest, latest, ok := t.DateBounds(); ok {
		opts.MinDate = earliest.Format(queryDateLayout)
		opts.MaxDate = latest.Format(queryDateLayout)
	}

	return opts
}

// noticeText turns a load failure into the message shown above the data.
func noticeText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apperrors.ErrSchemaMismatch):
		return "Unexpected dataset layout, check the export format: " + err.Error()
	case errors.Is(err, apperrors.ErrSourceNotConfigured):
		return "No source is configured for this dataset."
	default:
		return "Dataset could not be loaded: " + err.Error()
	}
}

func allowRead(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}
