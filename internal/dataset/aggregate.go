package dataset

import (
	"sort"
	"time"
)

// DayCount is the number of records published on one calendar date.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// ValueCount is the frequency of one distinct field value.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountPerDay groups rows by the calendar date of their record date, in the
// date's own location, ascending. Null-dated rows are skipped.
func CountPerDay[R Record](rows []R) []DayCount {
	counts := make(map[time.Time]int)

	for _, r := range rows {
		t, ok := r.RecordDate()
		if !ok {
			continue
		}

		y, m, d := t.Date()
		counts[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)]++
	}

	out := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayCount{Day: day, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})

	return out
}

// TopN returns the n most frequent non-empty values of field, highest count
// first. Ties keep first-encountered order.
func TopN[R any](rows []R, field func(R) string, n int) []ValueCount {
	if n <= 0 {
		return []ValueCount{}
	}

	index := make(map[string]int)
	counts := make([]ValueCount, 0)

	for _, r := range rows {
		v := field(r)
		if v == "" {
			continue
		}

		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}

		index[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > n {
		counts = counts[:n]
	}

	return counts
}
