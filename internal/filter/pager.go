package filter

// DefaultPageSize is the initial visible prefix and the growth per LoadMore.
const DefaultPageSize = 30

// Pager tracks how much of a filtered list is visible. It never fetches.
type Pager struct {
	size  int
	limit int
}

func NewPager(size int) Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pager{size: size, limit: size}
}

// Reset returns to the first page; called on every fresh load.
func (p *Pager) Reset() { p.limit = p.size }

func (p Pager) Limit() int { return p.limit }

func (p Pager) CanLoadMore(total int) bool { return p.limit < total }

// LoadMore grows the window by one page when more items exist. It reports
// whether the window changed.
func (p *Pager) LoadMore(total int) bool {
	if !p.CanLoadMore(total) {
		return false
	}
	p.limit += p.size
	return true
}

// Page returns the visible prefix of filtered.
func Page[T any](p Pager, filtered []T) []T {
	n := min(p.limit, len(filtered))
	out := make([]T, n)
	copy(out, filtered[:n])
	return out
}
