package service

import (
	"math"
	"strings"

	"cvedex/core"
	"cvedex/storage"
)

const (
	// DefaultPageLimit is used when a caller supplies no limit
	DefaultPageLimit = 20
	// MaxPageLimit caps any page size
	MaxPageLimit = 100
	// maxPage bounds page numbers so skip cannot overflow
	maxPage = 1000000
)

// PageRequest is a validated page/limit/sort request.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // asc or desc
}

// Pagination describes one page of a paged list.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// Page is the paged list shape shared by every list operation.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// TotalPages is ceil(total/limit); zero when there is nothing to page.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / float64(limit)))
}

func newPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Total:      total,
			Page:       req.Page,
			Limit:      req.Limit,
			TotalPages: TotalPages(total, req.Limit),
		},
	}
}

// normalize fills defaults and clamps page and limit into range.
func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// offset converts page and limit to a skip count
func (p PageRequest) offset() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// findOptions builds storage options for the page. SortBy defaults to
// defaultField and the order to descending.
func (p PageRequest) findOptions(sortable map[string]bool, defaultField string) (storage.FindOptions, error) {
	field := p.SortBy
	if field == "" {
		field = defaultField
	}
	if !sortable[field] {
		return storage.FindOptions{}, core.InvalidArgumentf("cannot sort by %q", field)
	}
	return storage.FindOptions{
		Skip:  p.offset(),
		Limit: int64(p.Limit),
		Sort:  []storage.SortField{{Field: field, Desc: !strings.EqualFold(p.SortOrder, "asc")}},
	}, nil
}
