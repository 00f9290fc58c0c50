package ports

// SortField is one key of a list ordering.
type SortField struct {
	Field string
	Desc  bool
}

// ListQuery is the storage-neutral translation of a list request's query
// string: equality filters, ordering and an offset window.
type ListQuery struct {
	Filters map[string]string
	Sort    []SortField
	Offset  int
	Limit   int
}

// Page is one window of a list result.
type Page[T any] struct {
	Items  []T
	Total  int64
	Offset int
	Limit  int
}

// TotalPages is the number of pages of size Limit needed to cover Total.
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}
