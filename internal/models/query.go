package models

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page selects a 1-indexed window of Limit items.
type Page struct {
	Page  int
	Limit int
}

func DefaultPageRequest() Page {
	return Page{Page: DefaultPage, Limit: DefaultLimit}
}

// Bounds returns the half-open [start, end) window clamped to n items.
// A page past the end yields start == end.
func (p Page) Bounds(n int) (start, end int) {
	if p.Page < 1 || p.Limit < 1 {
		return 0, 0
	}
	// Compare page indexes before multiplying; huge pages would overflow.
	if p.Page-1 > n/p.Limit {
		return n, n
	}
	start = (p.Page - 1) * p.Limit
	if start > n {
		return n, n
	}
	end = start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}

// Filters are exact-match and ANDed together; zero values impose no constraint.

type TeapotFilter struct {
	Material TeapotMaterial
	Style    TeapotStyle
}

func (f TeapotFilter) Match(t *Teapot) bool {
	if f.Material != "" && t.Material != f.Material {
		return false
	}
	if f.Style != "" && t.Style != f.Style {
		return false
	}
	return true
}

type TeaFilter struct {
	Type          TeaType
	CaffeineLevel CaffeineLevel
}

func (f TeaFilter) Match(t *Tea) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.CaffeineLevel != "" && t.CaffeineLevel != f.CaffeineLevel {
		return false
	}
	return true
}

type BrewFilter struct {
	Status   BrewStatus
	TeapotID string
	TeaID    string
}

func (f BrewFilter) Match(b *Brew) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.TeapotID != "" && b.TeapotID != f.TeapotID {
		return false
	}
	if f.TeaID != "" && b.TeaID != f.TeaID {
		return false
	}
	return true
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(p Page, total int) Pagination {
	pages := 0
	if total > 0 && p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// ListResponse is the envelope for every paginated list endpoint.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
