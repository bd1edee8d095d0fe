package domain

// Listing page sizes.
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// PaginationParams selects one page of the newest-first event listing.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalized fills in the first page and default size, and caps the size at MaxPageSize.
func (p PaginationParams) Normalized() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the number of events preceding the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
