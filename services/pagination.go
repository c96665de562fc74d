package services

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a normalized offset/limit request.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page and limit to their defaults and bounds.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResult is the paginated list shape returned by list endpoints.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	TotalPages int   `json:"totalPages"`
	Count      int64 `json:"count"`
}

func newPageResult[T any](items []T, count int64, p Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:      items,
		TotalPages: int((count + int64(p.Limit) - 1) / int64(p.Limit)),
		Count:      count,
	}
}
