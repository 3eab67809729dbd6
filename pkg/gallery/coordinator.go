package gallery

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"tableflip.dev/catime/pkg/catalog"
)

// Closed is the lightbox cursor value when nothing is displayed or the
// displayed item is not part of the filtered subset.
const Closed = -1

// Options configures a Coordinator.
type Options struct {
	PageSize int
	Sink     Sink
	Details  *DetailCache
	Likes    catalog.Likes
	Comments catalog.Comments
	// Rand drives Random; defaults to a time-seeded source.
	Rand *rand.Rand
}

// Selection is the item shown in the lightbox.
type Selection struct {
	Item catalog.Item
	// Index is the position within the filtered subset, or Closed.
	Index int
	// Epoch identifies the open request; detail responses carrying an older
	// epoch must not be applied.
	Epoch uint64
}

// Coordinator owns the filter state, the paginator and the lightbox cursor.
// It is not safe for concurrent use; the detail cache it hands out is.
type Coordinator struct {
	items    []catalog.Item
	filter   Filter
	filtered []catalog.Item

	pager    *Paginator
	details  *DetailCache
	likes    catalog.Likes
	comments catalog.Comments
	rnd      *rand.Rand

	open    bool
	current Selection
	epoch   uint64
}

// New builds a coordinator over the working set and renders the first page
// of the unfiltered view.
func New(items []catalog.Item, opts Options) *Coordinator {
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	details := opts.Details
	if details == nil {
		details = NewDetailCache(nil, nil)
	}
	c := &Coordinator{
		items:    items,
		pager:    NewPaginator(opts.PageSize, opts.Sink),
		details:  details,
		likes:    opts.Likes,
		comments: opts.Comments,
		rnd:      rnd,
		current:  Selection{Index: Closed},
	}
	c.apply()
	return c
}

// Items returns the working set.
func (c *Coordinator) Items() []catalog.Item { return c.items }

// Filter returns the active predicate state.
func (c *Coordinator) Filter() Filter { return c.filter }

// Filtered returns the current filtered subset.
func (c *Coordinator) Filtered() []catalog.Item { return c.filtered }

// Paginator exposes the paging cursor.
func (c *Coordinator) Paginator() *Paginator { return c.pager }

// Details exposes the shared detail cache.
func (c *Coordinator) Details() *DetailCache { return c.details }

// SetFilter replaces the predicate state, recomputes the subset and renders
// its first page.
func (c *Coordinator) SetFilter(f Filter) {
	f.Query = normalizeQuery(f.Query)
	if f.Inspiration == "" {
		f.Inspiration = InspirationAll
	}
	c.filter = f
	c.apply()
}

// UpdateFilter applies mutate to a copy of the filter state and installs it.
func (c *Coordinator) UpdateFilter(mutate func(f *Filter)) {
	f := c.filter
	mutate(&f)
	c.SetFilter(f)
}

func (c *Coordinator) apply() {
	if c.filter.Inspiration == "" {
		c.filter.Inspiration = InspirationAll
	}
	c.filtered = Compute(c.items, c.filter)
	c.pager.Reset(c.filtered)
	c.pager.LoadMore()
	if c.open {
		c.current.Index = c.indexOf(c.current.Item)
	}
}

// LoadMore renders the next page of the subset.
func (c *Coordinator) LoadMore() bool { return c.pager.LoadMore() }

// CountLabel is the header shown above the grid.
func (c *Coordinator) CountLabel() string {
	return fmt.Sprintf("%d cats", len(c.filtered))
}

// Likes returns the like count of item.
func (c *Coordinator) Likes(item catalog.Item) int { return c.likes.Count(item) }

// CommentURL returns the discussion link of item.
func (c *Coordinator) CommentURL(item catalog.Item) string { return c.comments.URL(item) }

// SetSocial installs the likes and comment maps.
func (c *Coordinator) SetSocial(likes catalog.Likes, comments catalog.Comments) {
	c.likes = likes
	c.comments = comments
}

// Open displays item in the lightbox. The cursor is the item's position in
// the filtered subset, or Closed when the item is not part of it.
func (c *Coordinator) Open(item catalog.Item) Selection {
	c.epoch++
	c.open = true
	c.current = Selection{Item: item, Index: c.indexOf(item), Epoch: c.epoch}
	return c.current
}

// Navigate moves the lightbox by delta. Targets outside the subset and
// navigation from an unfound cursor are ignored.
func (c *Coordinator) Navigate(delta int) (Selection, bool) {
	if !c.open || c.current.Index == Closed {
		return c.current, false
	}
	target := c.current.Index + delta
	if target < 0 || target >= len(c.filtered) {
		return c.current, false
	}
	c.pager.CatchUp(target)
	return c.Open(c.filtered[target]), true
}

// Close hides the lightbox. Pending detail responses are discarded by Accept.
func (c *Coordinator) Close() {
	c.open = false
	c.epoch++
	c.current = Selection{Index: Closed}
}

// Current returns the displayed selection.
func (c *Coordinator) Current() (Selection, bool) {
	return c.current, c.open
}

// IsOpen reports if the lightbox is displayed.
func (c *Coordinator) IsOpen() bool { return c.open }

// Accept reports if a detail response for epoch belongs to the displayed
// selection.
func (c *Coordinator) Accept(epoch uint64) bool {
	return c.open && epoch == c.epoch
}

// HasPrev reports if Navigate(-1) would move.
func (c *Coordinator) HasPrev() bool {
	return c.open && c.current.Index > 0
}

// HasNext reports if Navigate(+1) would move.
func (c *Coordinator) HasNext() bool {
	return c.open && c.current.Index != Closed && c.current.Index < len(c.filtered)-1
}

// JumpTo materializes the first filtered item of the "YYYY-MM" group and
// returns its index. It reports false when the group has no filtered items.
func (c *Coordinator) JumpTo(group string) (int, bool) {
	for idx, item := range c.filtered {
		if strings.HasPrefix(item.Timestamp, group) {
			c.pager.CatchUp(idx)
			return idx, true
		}
	}
	return Closed, false
}

// Random opens a random cat, drawn from the filtered subset or, when the
// subset is empty, from the whole working set.
func (c *Coordinator) Random() (Selection, bool) {
	pool := c.filtered
	if len(pool) == 0 {
		pool = c.items
	}
	if len(pool) == 0 {
		return c.current, false
	}
	idx := c.rnd.Intn(len(pool))
	c.pager.CatchUp(idx)
	return c.Open(pool[idx]), true
}

// NewestMonth returns the year and month of the newest cat, used to seed the
// calendar. ok is false for an empty catalog or an unparsable timestamp.
func (c *Coordinator) NewestMonth() (time.Time, bool) {
	if len(c.items) == 0 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01", c.items[0].Group())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (c *Coordinator) indexOf(item catalog.Item) int {
	for idx, candidate := range c.filtered {
		if candidate == item {
			return idx
		}
	}
	for idx, candidate := range c.filtered {
		if candidate.Number == item.Number {
			return idx
		}
	}
	return Closed
}
