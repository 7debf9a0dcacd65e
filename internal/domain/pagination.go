package domain

// PaginatedResult is a generic page of items with the totals the API
// returns alongside them.
type PaginatedResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPaginatedResult assembles a page from a repository listing.
func NewPaginatedResult[T any](items []T, total int64, page, limit int) PaginatedResult[T] {
	return PaginatedResult[T]{Items: items, Total: total, Page: page, Limit: limit}
}
