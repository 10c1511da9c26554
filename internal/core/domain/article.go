package domain

import "time"

// ArticleRecord is one row of the news-article export.
type ArticleRecord struct {
	Category         string    `json:"category"`
	Headline         string    `json:"headline"`
	Authors          string    `json:"authors"`
	Link             string    `json:"link,omitempty"`
	ShortDescription string    `json:"short_description"`
	Date             time.Time `json:"date,omitzero"` // zero when missing or unparseable
}

// RecordDate returns the publish date and whether it parsed.
func (a ArticleRecord) RecordDate() (time.Time, bool) {
	return a.Date, !a.Date.IsZero()
}

// CategoryKey returns the news category.
func (a ArticleRecord) CategoryKey() string {
	return a.Category
}

// SecondaryKey returns the author string.
func (a ArticleRecord) SecondaryKey() string {
	return a.Authors
}

// SearchFields returns the headline.
func (a ArticleRecord) SearchFields() []string {
	return []string{a.Headline}
}

// HasLink reports whether the article carries a "read more" link.
func (a ArticleRecord) HasLink() bool {
	return a.Link != ""
}
