package domain

// ItemQuery selects a window of movies or shows. A zero Limit returns every
// matching row.
type ItemQuery struct {
	Search      string
	FetchedOnly bool
	Offset      int
	Limit       int
}

// NormalizePage turns a page request into an offset/limit pair.
// A zero pageSize means "everything"; a page whose offset lies past total is
// reset to the first page instead of returning an empty window.
func NormalizePage(page, pageSize, total int) (offset, limit int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = total
	}
	// Compared by division so a huge page cannot overflow the product.
	if pageSize > 0 && page > total/pageSize {
		page = 0
	}
	return page * pageSize, pageSize
}
