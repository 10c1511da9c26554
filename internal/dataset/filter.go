// Package dataset implements the filter, aggregation and pagination pipeline
// shared by every tabular dataset the dashboard serves.
//
// All functions are pure: they borrow the caller's rows and return new slices
// without mutating the source table.
package dataset

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// All is the pick-list sentinel that disables an exact-match filter.
const All = "All"

// Record is the capability set a row must expose to be filtered.
type Record interface {
	// RecordDate returns the row's date and false when it is null.
	RecordDate() (time.Time, bool)
	CategoryKey() string
	SecondaryKey() string
	// SearchFields lists the text fields the keyword is matched against.
	SearchFields() []string
}

// Criteria holds the user-selected filter parameters.
// Zero values disable the corresponding predicate.
type Criteria struct {
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Category  string     `json:"category,omitempty"`
	Secondary string     `json:"secondary,omitempty"`
	Keyword   string     `json:"keyword,omitempty"`
}

// HasDateRange reports whether either date bound is set.
func (c Criteria) HasDateRange() bool {
	return c.From != nil || c.To != nil
}

func isActive(value string) bool {
	return value != "" && value != All
}

// matcher evaluates the non-indexed predicates for a single criteria set.
type matcher struct {
	criteria Criteria
	keyword  string
	caser    cases.Caser
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{criteria: c, caser: cases.Fold()}
	if c.Keyword != "" {
		m.keyword = m.caser.String(c.Keyword)
	}

	return m
}

func (m *matcher) matchDate(r Record) bool {
	if !m.criteria.HasDateRange() {
		return true
	}

	t, ok := r.RecordDate()
	if !ok {
		return false
	}

	if m.criteria.From != nil && t.Before(*m.criteria.From) {
		return false
	}

	if m.criteria.To != nil && t.After(*m.criteria.To) {
		return false
	}

	return true
}

func (m *matcher) matchKeyword(r Record) bool {
	if m.keyword == "" {
		return true
	}

	for _, field := range r.SearchFields() {
		if field == "" {
			continue
		}

		if strings.Contains(m.caser.String(field), m.keyword) {
			return true
		}
	}

	return false
}

func (m *matcher) match(r Record) bool {
	if isActive(m.criteria.Category) && r.CategoryKey() != m.criteria.Category {
		return false
	}

	if isActive(m.criteria.Secondary) && r.SecondaryKey() != m.criteria.Secondary {
		return false
	}

	return m.matchDate(r) && m.matchKeyword(r)
}

// Filter returns the rows satisfying every active predicate in c, in their
// original order. An empty table yields an empty, non-nil result.
func Filter[R Record](rows []R, c Criteria) []R {
	m := newMatcher(c)
	out := make([]R, 0)

	for _, r := range rows {
		if m.match(r) {
			out = append(out, r)
		}
	}

	return out
}
