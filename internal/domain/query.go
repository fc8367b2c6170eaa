package domain

import "strings"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchQuery describes one directory lookup. It has no identity.
type SearchQuery struct {
	Specialty  string   `json:"specialty,omitempty"`
	MinRating  *float64 `json:"rating,omitempty"`
	SearchTerm string   `json:"searchTerm,omitempty"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
}

// Normalize applies paging defaults and trims the text fields.
func (q SearchQuery) Normalize() SearchQuery {
	q.Specialty = strings.TrimSpace(q.Specialty)
	q.SearchTerm = strings.TrimSpace(q.SearchTerm)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// FiltersSpecialty reports whether the specialty filter is active.
func (q SearchQuery) FiltersSpecialty() bool {
	return q.Specialty != "" && !strings.EqualFold(q.Specialty, SpecialtyAll)
}

// Result sources.
const (
	SourceRemote = "remote"
	SourceCache  = "cache"
)

// PageResult is one page of coaches plus pagination metadata.
type PageResult struct {
	Coaches    []CoachRecord `json:"coaches"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Source     string        `json:"source,omitempty"`
}

// Window is the outcome of pagination arithmetic.
type Window struct {
	Page       int
	TotalPages int
	Start      int
	End        int
}

// Paginate clamps page into [1, max(totalPages,1)] and returns the slice
// bounds [Start, End) for a collection of total items.
func Paginate(total, page, pageSize int) Window {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	maxPage := totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Window{Page: page, TotalPages: totalPages, Start: start, End: end}
}
