package simpleblog

// Pager is the stateless offset/limit calculator shared by every listing
// operation. Pages are 1-based. Inputs are sanitized to valid ranges rather
// than rejected; there are no failure conditions.
type Pager struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	Total        int `json:"total"`
	TotalPages   int `json:"total_pages"`
}

// NewPager creates a pager for the given 1-based page. Pages below 1 are
// coerced to 1 and sizes below 1 fall back to DefaultPageSize.
func NewPager(page, size int) *Pager {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return &Pager{CurrentPage: page, ItemsPerPage: size}
}

// Configure sets the pre-windowing total item count and derives the total
// page count, clamped to a minimum of 1 so an empty result still has a page.
func (p *Pager) Configure(total int) {
	if total < 0 {
		total = 0
	}
	p.Total = total
	pages := (total + p.ItemsPerPage - 1) / p.ItemsPerPage
	if pages < 1 {
		pages = 1
	}
	p.TotalPages = pages
}

// Offset returns the number of items to skip for the current page.
func (p *Pager) Offset() int {
	return (p.CurrentPage - 1) * p.ItemsPerPage
}
