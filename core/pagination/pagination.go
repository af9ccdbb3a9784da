package pagination

const DefaultPageSize = 20

// Page describes one window over an ordered result set. Number is 1-based.
type Page struct {
	Number     int
	Size       int
	TotalItems int
	TotalPages int
	Start      int
	End        int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Compute clamps page and size and returns the window bounds for total items.
func Compute(total, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}
	// Pages past the end yield an empty window at total. Bounds are
	// compared before multiplying so huge page or size values cannot overflow.
	start := total
	if page <= totalPages {
		start = (page - 1) * size
	}
	end := total
	if size < total-start {
		end = start + size
	}
	return Page{Number: page, Size: size, TotalItems: total, TotalPages: totalPages, Start: start, End: end}
}

// Slice returns the requested page of items.
func Slice[T any](items []T, page, size int) ([]T, Page) {
	p := Compute(len(items), page, size)
	return items[p.Start:p.End], p
}
