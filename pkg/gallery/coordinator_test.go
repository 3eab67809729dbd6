package gallery

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/catime/pkg/catalog"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	details map[string][]catalog.Detail
	fail    map[string]bool
	gate    chan struct{}
	started int32
}

func (f *fakeFetcher) Details(_ context.Context, group string) ([]catalog.Detail, error) {
	atomic.AddInt32(&f.started, 1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[group]++
	if f.fail[group] {
		return nil, errors.New("boom")
	}
	return f.details[group], nil
}

func (f *fakeFetcher) count(group string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[group]
}

func TestCoordinatorRendersFirstPageOnFilterChange(t *testing.T) {
	rows := &Rows{}
	c := New(monthly(50, 50), Options{Sink: rows})
	assert.Equal(t, 20, c.Paginator().Loaded())
	assert.Equal(t, "50 cats", c.CountLabel())

	c.LoadMore()
	assert.Equal(t, 40, c.Paginator().Loaded())

	c.SetFilter(Filter{Query: "1"})
	assert.Equal(t, len(c.Filtered()), c.Paginator().Len())
	assert.LessOrEqual(t, c.Paginator().Loaded(), 20)
	for _, row := range rows.All() {
		if row.Kind == RowCard {
			assert.Contains(t, row.Item.Key(), "1")
		}
	}
	assert.Equal(t, InspirationAll, c.Filter().Inspiration)
}

func TestCoordinatorUpdateFilterNormalizesQuery(t *testing.T) {
	c := New(sampleItems(), Options{})
	c.UpdateFilter(func(f *Filter) { f.Query = "  FIRST " })
	assert.Equal(t, "first", c.Filter().Query)
	assert.Equal(t, []int{1}, numbers(c.Filtered()))
}

func TestLightboxNavigationBoundaries(t *testing.T) {
	c := New(monthly(3, 3), Options{})
	items := c.Filtered()

	sel := c.Open(items[0])
	require.Equal(t, 0, sel.Index)
	assert.False(t, c.HasPrev())
	assert.True(t, c.HasNext())

	got, moved := c.Navigate(-1)
	assert.False(t, moved)
	assert.Equal(t, 0, got.Index)

	got, moved = c.Navigate(1)
	require.True(t, moved)
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, items[1], got.Item)

	c.Open(items[2])
	got, moved = c.Navigate(1)
	assert.False(t, moved)
	assert.Equal(t, 2, got.Index)
	assert.False(t, c.HasNext())
}

func TestLightboxNavigationCatchesUpPaginator(t *testing.T) {
	c := New(monthly(45, 10), Options{PageSize: 20})
	items := c.Filtered()
	c.Open(items[19])
	require.Equal(t, 20, c.Paginator().Loaded())

	sel, moved := c.Navigate(1)
	require.True(t, moved)
	assert.Equal(t, 20, sel.Index)
	assert.Equal(t, 40, c.Paginator().Loaded())
}

func TestLightboxUnfoundItemIsInert(t *testing.T) {
	c := New(sampleItems(), Options{})
	c.SetFilter(Filter{Model: "imagen"})

	outsider := catalog.Item{Number: 999, Timestamp: "2020-01-01 00:00"}
	sel := c.Open(outsider)
	assert.Equal(t, Closed, sel.Index)
	assert.True(t, c.IsOpen())

	_, moved := c.Navigate(1)
	assert.False(t, moved)
	_, moved = c.Navigate(-1)
	assert.False(t, moved)
	assert.False(t, c.HasNext())
	assert.False(t, c.HasPrev())
}

func TestLightboxOpenFallsBackToNumber(t *testing.T) {
	c := New(sampleItems(), Options{})
	stale := c.Filtered()[2]
	stale.Title = "renamed"
	sel := c.Open(stale)
	assert.Equal(t, 2, sel.Index)
}

func TestLightboxEpochGuard(t *testing.T) {
	c := New(sampleItems(), Options{})
	first := c.Open(c.Filtered()[0])
	second, _ := c.Navigate(1)

	assert.False(t, c.Accept(first.Epoch), "stale response is rejected")
	assert.True(t, c.Accept(second.Epoch))

	c.Close()
	assert.False(t, c.Accept(second.Epoch))
	cur, open := c.Current()
	assert.False(t, open)
	assert.Equal(t, Closed, cur.Index)
}

func TestJumpToMaterializesGroup(t *testing.T) {
	rows := &Rows{}
	c := New(monthly(60, 10), Options{Sink: rows, PageSize: 20})

	idx, ok := c.JumpTo("2024-08")
	require.True(t, ok)
	assert.Equal(t, 40, idx)
	assert.GreaterOrEqual(t, c.Paginator().Loaded(), 41)
	assert.GreaterOrEqual(t, rows.RowOfGroup("2024-08"), 0)

	_, ok = c.JumpTo("1999-01")
	assert.False(t, ok)
}

func TestRandomDrawsFromFilteredOrWholeCatalog(t *testing.T) {
	c := New(monthly(30, 10), Options{Rand: rand.New(rand.NewSource(7)), PageSize: 5})
	sel, ok := c.Random()
	require.True(t, ok)
	assert.NotEqual(t, Closed, sel.Index)
	assert.Greater(t, c.Paginator().Loaded(), sel.Index)

	c.SetFilter(Filter{Model: "none"})
	sel, ok = c.Random()
	require.True(t, ok)
	assert.Equal(t, Closed, sel.Index, "whole-catalog picks are not in the empty subset")

	empty := New(nil, Options{})
	_, ok = empty.Random()
	assert.False(t, ok)
}

func TestNewestMonth(t *testing.T) {
	c := New(sampleItems(), Options{})
	month, ok := c.NewestMonth()
	require.True(t, ok)
	assert.Equal(t, 2024, month.Year())
	assert.Equal(t, 3, int(month.Month()))

	_, ok = New(nil, Options{}).NewestMonth()
	assert.False(t, ok)
}

func TestSocialLookups(t *testing.T) {
	c := New(sampleItems(), Options{
		Likes:    catalog.Likes{"12": 4},
		Comments: catalog.Comments{"12": "https://example.com/12"},
	})
	item := c.Filtered()[0]
	assert.Equal(t, 4, c.Likes(item))
	assert.Equal(t, "https://example.com/12", c.CommentURL(item))
	assert.Equal(t, 0, c.Likes(c.Filtered()[1]))
}

func TestDetailCacheHitAndMiss(t *testing.T) {
	fetcher := &fakeFetcher{details: map[string][]catalog.Detail{
		"2024-02": {{Number: 11, Prompt: "two cats"}, {Number: 10, Story: "nap"}},
	}}
	cache := NewDetailCache(fetcher, nil)
	ctx := context.Background()

	got := cache.Get(ctx, catalog.Item{Number: 11, Timestamp: "2024-02-15 09:00"})
	assert.Equal(t, "two cats", got.Prompt)
	got = cache.Get(ctx, catalog.Item{Number: 10, Timestamp: "2024-02-14 09:00"})
	assert.Equal(t, "nap", got.Story)
	assert.True(t, cache.Get(ctx, catalog.Item{Number: 3, Timestamp: "2024-02-01 09:00"}).IsZero())
	assert.Equal(t, 1, fetcher.count("2024-02"))
	assert.True(t, cache.Cached(catalog.Item{Timestamp: "2024-02-28 00:00"}))
}

func TestDetailCacheNegativeCaching(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]bool{"2024-01": true}}
	cache := NewDetailCache(fetcher, nil)
	ctx := context.Background()

	first := cache.Get(ctx, catalog.Item{Number: 1, Timestamp: "2024-01-01 09:00"})
	second := cache.Get(ctx, catalog.Item{Number: 5, Timestamp: "2024-01-20 09:00"})
	assert.True(t, first.IsZero())
	assert.True(t, second.IsZero())
	assert.Equal(t, 1, fetcher.count("2024-01"), "failed groups are not fetched again")
}

func TestDetailCacheCollapsesConcurrentFetches(t *testing.T) {
	fetcher := &fakeFetcher{
		gate:    make(chan struct{}),
		details: map[string][]catalog.Detail{"2024-05": {{Number: 1, Prompt: "p"}}},
	}
	cache := NewDetailCache(fetcher, nil)
	item := catalog.Item{Number: 1, Timestamp: "2024-05-01 00:00"}

	var wg sync.WaitGroup
	results := make([]catalog.Detail, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(context.Background(), item)
		}(i)
	}
	// Let the goroutines pile onto the single in-flight fetch.
	for atomic.LoadInt32(&fetcher.started) == 0 {
		runtime.Gosched()
	}
	close(fetcher.gate)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "p", r.Prompt)
	}
	assert.LessOrEqual(t, fetcher.count("2024-05"), 1)
}

func TestTimelineAndOptions(t *testing.T) {
	items := sampleItems()
	tl := Timeline(items)
	require.Len(t, tl, 1)
	assert.Equal(t, "2024", tl[0].Year)
	assert.Equal(t, []string{"2024-03", "2024-02", "2024-01"}, tl[0].Months)

	assert.Equal(t, []string{"flux", "imagen"}, Models(items))
	assert.Equal(t, []string{"Mochi", "Tofu"}, Characters(items))

	counts := MonthCounts(items)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, len(items), total)
	assert.Len(t, counts, 3)

	dates := Dates(items)
	assert.True(t, dates["2024-02-15"])
	assert.False(t, dates["2024-02-16"])

	multi := append(items, catalog.Item{Number: 0, Timestamp: "2023-12-31 23:00"}, catalog.Item{Number: -1, Timestamp: "bogus"})
	tl = Timeline(multi)
	require.Len(t, tl, 2)
	assert.Equal(t, "2023", tl[1].Year)
	assert.Equal(t, []string{"2023-12"}, tl[1].Months)
}
