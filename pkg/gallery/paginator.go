package gallery

import "tableflip.dev/catime/pkg/catalog"

// DefaultPageSize is the number of cards materialized per LoadMore.
const DefaultPageSize = 20

// Sink receives the rendered sequence. Reset is called before the first page
// of a new filtered subset; Separator precedes the first card of each group.
type Sink interface {
	Reset()
	Separator(group string)
	Card(index int, item catalog.Item)
}

// Paginator exposes the filtered subset in fixed-size pages.
type Paginator struct {
	items    []catalog.Item
	pageSize int
	loaded   int
	loading  bool
	sink     Sink
}

// NewPaginator creates a paginator writing into sink. A non-positive page
// size falls back to DefaultPageSize.
func NewPaginator(pageSize int, sink Sink) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if sink == nil {
		sink = discard{}
	}
	return &Paginator{pageSize: pageSize, sink: sink}
}

// Reset replaces the subset, clears rendered output and rewinds the cursor.
// The first page is not loaded; callers follow up with LoadMore.
func (p *Paginator) Reset(items []catalog.Item) {
	p.items = items
	p.loaded = 0
	p.loading = false
	p.sink.Reset()
}

// LoadMore renders the next page. It reports false when nothing was appended
// because a load is already running or the subset is exhausted.
func (p *Paginator) LoadMore() bool {
	if p.loading || p.loaded >= len(p.items) {
		return false
	}
	p.loading = true
	defer func() { p.loading = false }()

	end := p.loaded + p.pageSize
	if end > len(p.items) {
		end = len(p.items)
	}
	lastGroup := ""
	if p.loaded > 0 {
		lastGroup = p.items[p.loaded-1].Group()
	}
	for idx := p.loaded; idx < end; idx++ {
		item := p.items[idx]
		if group := item.Group(); group != lastGroup {
			p.sink.Separator(group)
			lastGroup = group
		}
		p.sink.Card(idx, item)
	}
	p.loaded = end
	return true
}

// CatchUp loads pages until index target is materialized or the subset is
// exhausted.
func (p *Paginator) CatchUp(target int) {
	for p.loaded <= target && p.loaded < len(p.items) {
		if !p.LoadMore() {
			return
		}
	}
}

// Loaded is the number of materialized items.
func (p *Paginator) Loaded() int { return p.loaded }

// Len is the size of the current subset.
func (p *Paginator) Len() int { return len(p.items) }

// Done reports if every item of the subset is materialized.
func (p *Paginator) Done() bool { return p.loaded >= len(p.items) }

// PageSize returns the configured page size.
func (p *Paginator) PageSize() int { return p.pageSize }

type discard struct{}

func (discard) Reset()                 {}
func (discard) Separator(string)       {}
func (discard) Card(int, catalog.Item) {}
