package shared

// Filter represents query filter options for list operations
type Filter struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		Filters:  make(map[string]interface{}),
	}
}

// Unpaged reports whether the filter requests the full result set
func (f Filter) Unpaged() bool {
	return f.PageSize <= 0
}

// Skip returns the number of records to skip for the requested page
func (f Filter) Skip() int64 {
	if f.Unpaged() || f.Page <= 1 {
		return 0
	}
	return int64(f.Page-1) * int64(f.PageSize)
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
