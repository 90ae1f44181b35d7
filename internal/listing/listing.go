// Package listing implements the shared pagination/filtering/sorting contract
// used by both stores: query normalization against a sort-field allow-list,
// page arithmetic, and a generic in-memory engine with a deterministic
// secondary sort key.
package listing

import "sort"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query carries the normalized listing parameters. Build one from raw request
// values with Normalize before handing it to a repository.
type Query struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalize clamps page and page size, resolves the sort field against the
// allow-list, and resolves the sort direction. An unknown sort field silently
// falls back to defaultSort; that is policy, not an error.
func Normalize(page, pageSize int, sortBy, sortOrder string, allowed []string, defaultSort string) Query {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	field := defaultSort
	for _, a := range allowed {
		if sortBy == a {
			field = sortBy
			break
		}
	}

	if sortOrder != OrderAsc {
		sortOrder = OrderDesc
	}

	return Query{Page: page, PageSize: pageSize, SortBy: field, SortOrder: sortOrder}
}

// Offset returns the number of items to skip for the query's page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Page is one page of a listing result plus its pagination metadata.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
}

// NewPage wraps items with pagination metadata. Pages is ceil(total/page_size)
// with a floor of 1 when total is zero, so clients always see a valid page count.
func NewPage[T any](items []T, total int64, q Query) Page[T] {
	pages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	if pages < 1 {
		pages = 1
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		Pages:    pages,
	}
}

// Apply runs the full in-memory listing pipeline: filter, stable sort, then
// slice out the requested page. less compares by the query's primary sort key
// only; ties are broken by id to keep pagination deterministic. Without the
// tie-break, equal keys could duplicate or drop rows across adjacent pages.
func Apply[T any](items []T, keep func(T) bool, less func(a, b T) bool, id func(T) string, q Query) Page[T] {
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if keep == nil || keep(it) {
			filtered = append(filtered, it)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return id(a) < id(b)
	})

	total := int64(len(filtered))
	start := q.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return NewPage(filtered[start:end], total, q)
}
