package dataset

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Table is an immutable, indexed snapshot of one dataset.
// Category and secondary values are kept as roaring posting lists so exact
// matches intersect bitmaps instead of scanning every row.
type Table[R Record] struct {
	rows        []R
	byCategory  map[string]*roaring.Bitmap
	bySecondary map[string]*roaring.Bitmap
	minDate     time.Time
	maxDate     time.Time
	hasDates    bool
}

// NewTable indexes rows. The slice must not be modified afterwards.
func NewTable[R Record](rows []R) *Table[R] {
	t := &Table[R]{
		rows:        rows,
		byCategory:  make(map[string]*roaring.Bitmap),
		bySecondary: make(map[string]*roaring.Bitmap),
	}

	for i, r := range rows {
		id := uint32(i) //nolint:gosec // row counts stay far below MaxUint32

		addPosting(t.byCategory, r.CategoryKey(), id)
		addPosting(t.bySecondary, r.SecondaryKey(), id)

		if d, ok := r.RecordDate(); ok {
			t.observeDate(d)
		}
	}

	return t
}

// Empty returns a table without rows.
func Empty[R Record]() *Table[R] {
	return NewTable[R](nil)
}

func addPosting(index map[string]*roaring.Bitmap, key string, id uint32) {
	if key == "" {
		return
	}

	bm, ok := index[key]
	if !ok {
		bm = roaring.New()
		index[key] = bm
	}

	bm.Add(id)
}

func (t *Table[R]) observeDate(d time.Time) {
	if !t.hasDates {
		t.minDate, t.maxDate, t.hasDates = d, d, true
		return
	}

	if d.Before(t.minDate) {
		t.minDate = d
	}

	if d.After(t.maxDate) {
		t.maxDate = d
	}
}

// Rows returns the underlying rows. Callers must treat them as read-only.
func (t *Table[R]) Rows() []R {
	return t.rows
}

// Len returns the number of rows.
func (t *Table[R]) Len() int {
	return len(t.rows)
}

// DateBounds returns the earliest and latest non-null dates.
func (t *Table[R]) DateBounds() (earliest, latest time.Time, ok bool) {
	return t.minDate, t.maxDate, t.hasDates
}

// Categories returns the sorted distinct non-empty category values.
func (t *Table[R]) Categories() []string {
	return sortedKeys(t.byCategory)
}

// Secondaries returns the sorted distinct non-empty secondary values.
func (t *Table[R]) Secondaries() []string {
	return sortedKeys(t.bySecondary)
}

func sortedKeys(index map[string]*roaring.Bitmap) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// WithAll prepends the All sentinel to a pick-list.
func WithAll(values []string) []string {
	return append([]string{All}, values...)
}

// Filter returns the same subset as the package-level Filter, using the
// posting lists to skip rows that cannot match.
func (t *Table[R]) Filter(c Criteria) []R {
	candidates, narrowed := t.candidates(c)
	if !narrowed {
		return Filter(t.rows, c)
	}

	m := newMatcher(c)
	out := make([]R, 0, candidates.GetCardinality())

	it := candidates.Iterator()
	for it.HasNext() {
		r := t.rows[it.Next()]
		if m.matchDate(r) && m.matchKeyword(r) {
			out = append(out, r)
		}
	}

	return out
}

// candidates intersects the posting lists of the active exact-match
// dimensions. narrowed is false when neither dimension is active.
func (t *Table[R]) candidates(c Criteria) (bm *roaring.Bitmap, narrowed bool) {
	var lists []*roaring.Bitmap

	if isActive(c.Category) {
		lists = append(lists, lookup(t.byCategory, c.Category))
	}

	if isActive(c.Secondary) {
		lists = append(lists, lookup(t.bySecondary, c.Secondary))
	}

	switch len(lists) {
	case 0:
		return nil, false
	case 1:
		return lists[0], true
	default:
		return roaring.And(lists[0], lists[1]), true
	}
}

func lookup(index map[string]*roaring.Bitmap, key string) *roaring.Bitmap {
	if bm, ok := index[key]; ok {
		return bm
	}

	return roaring.New()
}
