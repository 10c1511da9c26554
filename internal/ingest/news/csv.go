// Package news loads news-article exports into ArticleRecord rows.
//
// An export is a CSV file with a header row and either five columns
// (category, headline, authors, short_description, date) or six columns
// with a link between authors and short_description. Column meaning is
// positional; header names are not inspected.
package news

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

// Supported column layouts.
const (
	columnsWithoutLink = 5
	columnsWithLink    = 6
)

type layout struct {
	category, headline, authors, link, description, date int
}

var (
	layoutWithoutLink = layout{category: 0, headline: 1, authors: 2, link: -1, description: 3, date: 4}
	layoutWithLink    = layout{category: 0, headline: 1, authors: 2, link: 3, description: 4, date: 5}
)

func detectLayout(header []string) (layout, error) {
	switch len(header) {
	case columnsWithoutLink:
		return layoutWithoutLink, nil
	case columnsWithLink:
		return layoutWithLink, nil
	default:
		return layout{}, fmt.Errorf("%w: unexpected column count %d, expected %d or %d",
			apperrors.ErrSchemaMismatch, len(header), columnsWithoutLink, columnsWithLink)
	}
}

// ReadCSV parses a news export. The header row decides the layout; a header
// with any column count other than five or six yields ErrSchemaMismatch and
// no rows. Unparseable dates are left zero.
func ReadCSV(r io.Reader) ([]domain.ArticleRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", apperrors.ErrSchemaMismatch)
	}

	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	lay, err := detectLayout(header)
	if err != nil {
		return nil, err
	}

	var articles []domain.ArticleRecord

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(articles)+2, err)
		}

		articles = append(articles, lay.article(record))
	}

	return articles, nil
}

func (l layout) article(record []string) domain.ArticleRecord {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[i])
	}

	return domain.ArticleRecord{
		Category:         field(l.category),
		Headline:         field(l.headline),
		Authors:          field(l.authors),
		Link:             field(l.link),
		ShortDescription: field(l.description),
		Date:             parseDate(field(l.date)),
	}
}

// parseDate accepts any layout dateparse understands and returns zero time on failure.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}

	return t
}
