package search

// PageWindow is a clamped page request. Index is the zero-based offset of
// the first item, as index-based providers expect it.
type PageWindow struct {
	Page  int
	Limit int
	Index int
}

// MaxPage bounds page numbers so offset math cannot overflow.
const MaxPage = 1 << 20

// ClampPage maps page into [1, MaxPage].
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

func NewPageWindow(page, limit int) PageWindow {
	page = ClampPage(page)
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPage {
		limit = MaxPage
	}
	return PageWindow{Page: page, Limit: limit, Index: (page - 1) * limit}
}

// TotalPages is ceil(total/limit), 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NextPage returns the following page number, or nil when hasMore is false.
func (w PageWindow) NextPage(hasMore bool) *int {
	if !hasMore {
		return nil
	}
	next := w.Page + 1
	return &next
}

func (w PageWindow) PrevPage() *int {
	if w.Page <= 1 {
		return nil
	}
	prev := w.Page - 1
	return &prev
}

// clampLimit applies a default for non-positive limits and an upper bound.
func clampLimit(limit, fallback, maxLimit int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
