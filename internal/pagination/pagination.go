// Package pagination turns a page request into bounds over a counted candidate set.
package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page describes one slice of a candidate set. It is a pure function of
// (total, number, size): out-of-range page numbers are clamped, never rejected.
type Page struct {
	Number     int   `json:"currentPage"`
	Size       int   `json:"itemsPerPage"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNextPage"`
	HasPrev    bool  `json:"hasPreviousPage"`
	// Start and End are the half-open item bounds [Start, End)
	Start int64 `json:"-"`
	End   int64 `json:"-"`
}

// Limit is the number of items the page can hold
func (p Page) Limit() int64 { return int64(p.Size) }

// Normalize applies defaults to a raw page request
func Normalize(number, size int) (int, int) {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return number, size
}

// Paginate computes the page bounds for a candidate set of total items
func Paginate(total int64, number, size int) Page {
	number, size = Normalize(number, size)
	if total < 0 {
		total = 0
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := int64(number-1) * int64(size)
	end := start + int64(size)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
		Start:      start,
		End:        end,
	}
}
