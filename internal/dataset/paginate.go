package dataset

// Page is one contiguous slice of a subset.
type Page[R any] struct {
	Items      []R `json:"items"`
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// TotalPages returns ceil(n/pageSize), never less than 1.
// A non-positive page size means everything fits on one page.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}

	return (n + pageSize - 1) / pageSize
}

// Paginate returns page pageNumber (1-based) of rows. The caller is expected
// to clamp pageNumber to [1, TotalPages]; out-of-range pages come back empty.
// Items has no spare capacity, so appending to it never writes into rows.
func Paginate[R any](rows []R, pageSize, pageNumber int) Page[R] {
	page := Page[R]{
		Items:      []R{},
		Number:     pageNumber,
		Size:       pageSize,
		TotalPages: TotalPages(len(rows), pageSize),
		TotalItems: len(rows),
	}

	if len(rows) == 0 {
		return page
	}

	if pageSize <= 0 {
		if pageNumber == 1 {
			page.Items = rows[:len(rows):len(rows)]
		}

		return page
	}

	start := (pageNumber - 1) * pageSize
	if start < 0 || start >= len(rows) {
		return page
	}

	end := min(start+pageSize, len(rows))
	page.Items = rows[start:end:end]

	return page
}
