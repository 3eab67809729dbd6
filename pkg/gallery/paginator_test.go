package gallery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/catime/pkg/catalog"
)

// monthly builds n items spread over consecutive months, perMonth items each,
// newest first.
func monthly(n, perMonth int) []catalog.Item {
	items := make([]catalog.Item, 0, n)
	for i := 0; i < n; i++ {
		month := 12 - (i / perMonth)
		items = append(items, catalog.Item{
			Number:    n - i,
			URL:       fmt.Sprintf("%d.png", n-i),
			Timestamp: fmt.Sprintf("2024-%02d-01 10:00", month),
		})
	}
	return items
}

func TestPaginatorLoadsFixedPages(t *testing.T) {
	rows := &Rows{}
	p := NewPaginator(0, rows)
	p.Reset(monthly(45, 45))
	assert.Equal(t, DefaultPageSize, p.PageSize())
	assert.Equal(t, 0, p.Loaded())

	require.True(t, p.LoadMore())
	assert.Equal(t, 20, p.Loaded())
	require.True(t, p.LoadMore())
	assert.Equal(t, 40, p.Loaded())
	require.True(t, p.LoadMore())
	assert.Equal(t, 45, p.Loaded())
	assert.True(t, p.Done())

	before := rows.Len()
	assert.False(t, p.LoadMore(), "fully loaded paginator is a no-op")
	assert.Equal(t, before, rows.Len())
	assert.Equal(t, 45, p.Loaded())
}

func TestPaginatorSeparatorsAcrossPages(t *testing.T) {
	rows := &Rows{}
	p := NewPaginator(4, rows)
	// 3 items per month, so groups straddle page boundaries.
	items := monthly(10, 3)
	p.Reset(items)
	for p.LoadMore() {
	}

	seen := map[string]int{}
	var cards []int
	for pos, row := range rows.All() {
		switch row.Kind {
		case RowSeparator:
			seen[row.Group]++
			require.Less(t, pos+1, rows.Len(), "separator %s is the last row", row.Group)
			next := rows.All()[pos+1]
			assert.Equal(t, RowCard, next.Kind)
			assert.Equal(t, row.Group, next.Group, "separator precedes the first card of its group")
		case RowCard:
			cards = append(cards, row.Index)
			require.Greater(t, pos, 0, "first row must be a separator")
			prev := rows.All()[pos-1]
			assert.Equal(t, row.Group, prev.Group, "card %d follows a row of another group", row.Index)
		}
	}
	for group, count := range seen {
		assert.Equal(t, 1, count, "group %s separated more than once", group)
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, cards)
}

func TestPaginatorResetClearsOutput(t *testing.T) {
	rows := &Rows{}
	p := NewPaginator(5, rows)
	p.Reset(monthly(12, 12))
	p.LoadMore()
	p.LoadMore()
	require.Equal(t, 10, p.Loaded())

	p.Reset(monthly(3, 3))
	assert.Equal(t, 0, p.Loaded())
	assert.Equal(t, 0, rows.Len())
	p.LoadMore()
	assert.Equal(t, 4, rows.Len(), "one separator and three cards")
}

func TestPaginatorCatchUp(t *testing.T) {
	rows := &Rows{}
	p := NewPaginator(20, rows)
	p.Reset(monthly(100, 10))

	p.CatchUp(45)
	assert.Equal(t, 60, p.Loaded())
	assert.GreaterOrEqual(t, rows.RowOfIndex(45), 0)

	p.CatchUp(10)
	assert.Equal(t, 60, p.Loaded(), "catch-up never rewinds")

	p.CatchUp(1000)
	assert.Equal(t, 100, p.Loaded())
}

type reentrantSink struct {
	Rows
	p     *Paginator
	calls int
}

func (s *reentrantSink) Card(index int, item catalog.Item) {
	s.Rows.Card(index, item)
	if s.p.LoadMore() {
		s.calls++
	}
}

func TestPaginatorIgnoresLoadWhileInFlight(t *testing.T) {
	sink := &reentrantSink{}
	p := NewPaginator(3, sink)
	sink.p = p
	p.Reset(monthly(9, 9))

	require.True(t, p.LoadMore())
	assert.Equal(t, 0, sink.calls)
	assert.Equal(t, 3, p.Loaded())
}

func TestRowsLookup(t *testing.T) {
	rows := &Rows{}
	p := NewPaginator(10, rows)
	p.Reset(monthly(6, 3))
	p.LoadMore()

	assert.Equal(t, 0, rows.RowOfGroup("2024-12"))
	assert.Equal(t, 4, rows.RowOfGroup("2024-11"))
	assert.Equal(t, -1, rows.RowOfGroup("2023-01"))
	assert.Equal(t, 5, rows.RowOfIndex(3))
	assert.Equal(t, -1, rows.RowOfIndex(42))
}
