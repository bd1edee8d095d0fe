package helpers

import (
	"net/http"
	"strconv"

	"eventhub/internal/domain"
)

// ParsePagination reads page and page_size from the query string. Missing values take
// the defaults and an oversized page_size is capped; anything that is not a positive
// integer is a ValidationError naming the parameter.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	var p domain.PaginationParams
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"page", &p.Page},
		{"page_size", &p.PageSize},
	} {
		s := q.Get(f.name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return domain.PaginationParams{}, domain.NewValidationError(f.name, f.name+" must be a positive integer")
		}
		*f.dst = v
	}
	return p.Normalized(), nil
}

// PaginationMeta describes the page returned by a list endpoint.
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: p.Page, PageSize: p.PageSize, Total: total}
	if p.PageSize > 0 {
		meta.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return meta
}
