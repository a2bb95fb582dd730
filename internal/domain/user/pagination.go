package user

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 // Total number of records
	Page       int64 // Current page number (1-based)
	PageSize   int64 // Number of records per page
	TotalPages int64 // Total number of pages
}

// NewPagination creates a new Pagination instance with calculated total pages.
func NewPagination(total, page, pageSize int64) *Pagination {
	totalPages := int64(0)
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// HasNextPage reports whether a page exists after the current one.
func (p *Pagination) HasNextPage() bool {
	return p.Page < p.TotalPages
}

// HasPreviousPage reports whether a page exists before the current one.
func (p *Pagination) HasPreviousPage() bool {
	return p.Page > 1
}
