package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/gallery"
	"tableflip.dev/catime/pkg/store"
	"tableflip.dev/catime/pkg/tui/theme"
)

type fakeFeed struct {
	mu       sync.Mutex
	items    []catalog.Item
	err      error
	likes    catalog.Likes
	comments catalog.Comments
	profiles map[string]string
	images   map[int]string
	fetched  []string
}

func (f *fakeFeed) WorkingSet(context.Context) ([]catalog.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeFeed) Catalog(ctx context.Context) ([]catalog.Item, error) { return f.WorkingSet(ctx) }

func (f *fakeFeed) Likes(context.Context) catalog.Likes { return f.likes }

func (f *fakeFeed) Comments(context.Context) catalog.Comments { return f.comments }

func (f *fakeFeed) Details(_ context.Context, group string) ([]catalog.Detail, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, group)
	f.mu.Unlock()
	var out []catalog.Detail
	for _, item := range f.items {
		if item.Group() == group {
			out = append(out, catalog.Detail{
				Number: item.Number,
				Prompt: fmt.Sprintf("prompt %d", item.Number),
				Story:  "story",
				Idea:   "idea",
			})
		}
	}
	return out, nil
}

func (f *fakeFeed) Character(_ context.Context, id string) ([]byte, error) {
	if doc, ok := f.profiles[id]; ok {
		return []byte(doc), nil
	}
	return nil, fmt.Errorf("%w: %s", feed.ErrNotFound, id)
}

func (f *fakeFeed) Image(_ context.Context, item catalog.Item) ([]byte, error) {
	if data, ok := f.images[item.Number]; ok {
		return []byte(data), nil
	}
	return nil, fmt.Errorf("%w: image %d", feed.ErrNotFound, item.Number)
}

type fakePrefs struct{ saved []string }

func (p *fakePrefs) SetTheme(name string) error {
	p.saved = append(p.saved, name)
	return nil
}

// sampleItems returns #10..#6 in 2024-02 and #5..#1 in 2024-01.
func sampleItems() []catalog.Item {
	var items []catalog.Item
	for n := 10; n >= 1; n-- {
		month, day := 1, n
		if n > 5 {
			month, day = 2, n-5
		}
		model := "sdxl"
		if n%2 == 0 {
			model = "flux"
		}
		item := catalog.Item{
			Number:    n,
			URL:       fmt.Sprintf("https://example.com/%d.png", n),
			Timestamp: fmt.Sprintf("2024-%02d-%02d 10:00", month, day),
			Title:     "cat " + strconv.Itoa(n),
			Model:     model,
		}
		switch n {
		case 10:
			item.Character, item.CharacterName, item.Season = "mochi", "Mochi", catalog.Winter
			item.Inspiration = "Snow day"
		case 9:
			item.Character, item.CharacterName = "ghost", "Ghost"
			item.Inspiration = catalog.Original
		}
		items = append(items, item)
	}
	return items
}

type harness struct {
	feed    *fakeFeed
	prefs   *fakePrefs
	copied  []string
	opened  []string
	downDir string
}

func newModel(t *testing.T, width, height int) (*Model, *harness) {
	t.Helper()
	h := &harness{
		feed: &fakeFeed{
			items:    sampleItems(),
			likes:    catalog.Likes{"10": 4},
			comments: catalog.Comments{"8": "https://example.com/c/8"},
			profiles: map[string]string{"mochi": `{"id":"mochi","name":{"en":"Mochi"}}`},
			images:   map[int]string{8: "PNG8"},
		},
		prefs:   &fakePrefs{},
		downDir: t.TempDir(),
	}
	var mu sync.Mutex
	m := New(context.Background(), Options{
		Feed:        h.feed,
		PageSize:    3,
		Theme:       theme.Default(),
		Prefs:       h.prefs,
		DownloadDir: h.downDir,
		Clipboard: func(s string) error {
			mu.Lock()
			defer mu.Unlock()
			h.copied = append(h.copied, s)
			return nil
		},
		OpenURL: func(u string) error {
			mu.Lock()
			defer mu.Unlock()
			h.opened = append(h.opened, u)
			return nil
		},
		Rand: rand.New(rand.NewSource(7)),
	})
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m, h
}

func loadedModel(t *testing.T, width, height int) (*Model, *harness) {
	t.Helper()
	m, h := newModel(t, width, height)
	m.Update(loadCatalogCmd(context.Background(), h.feed, false)())
	require.False(t, m.loading)
	require.NoError(t, m.fatal)
	return m, h
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m *Model, k string) tea.Cmd {
	_, cmd := m.Update(keyMsg(k))
	return cmd
}

// collect runs cmd and returns its messages, flattening batches. Commands
// that do not finish within wait (cursor blink, status expiry) are dropped.
func collect(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c, wait)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(wait):
		return nil
	}
}

// run feeds the messages produced by cmd back into m until it settles.
func run(m *Model, cmd tea.Cmd) {
	for _, msg := range collect(cmd, 50*time.Millisecond) {
		if _, ok := msg.(clearStatusMsg); ok {
			continue
		}
		_, next := m.Update(msg)
		run(m, next)
	}
}

func TestLoadRendersFirstPages(t *testing.T) {
	m, _ := loadedModel(t, 100, 6)

	// three visible rows plus the look-ahead need two pages
	assert.Equal(t, 6, m.gal.Paginator().Loaded())
	row, ok := m.currentRow()
	require.True(t, ok)
	assert.Equal(t, gallery.RowCard, row.Kind)
	assert.Equal(t, 10, row.Item.Number)

	view := m.View()
	assert.Contains(t, view, "Catime")
	assert.Contains(t, view, "10 cats")
	assert.Contains(t, view, "── 2024-02 ──")
	assert.Contains(t, view, "#10")

	press(m, "end")
	assert.Equal(t, 10, m.gal.Paginator().Loaded())
	row, _ = m.currentRow()
	assert.Equal(t, 1, row.Item.Number)
}

func TestScrollingLoadsMore(t *testing.T) {
	m, _ := loadedModel(t, 100, 6)
	for i := 0; i < 4; i++ {
		press(m, "down")
	}
	row, _ := m.currentRow()
	assert.Equal(t, gallery.RowCard, row.Kind, "separators are skipped")
	assert.Equal(t, 6, row.Item.Number)
	assert.Equal(t, 9, m.gal.Paginator().Loaded())
	assert.LessOrEqual(t, m.top, m.cursor)

	for i := 0; i < 10; i++ {
		press(m, "up")
	}
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, 0, m.top)
}

func TestFatalLoadError(t *testing.T) {
	m, h := newModel(t, 80, 20)
	h.feed.err = errors.New("boom")
	m.Update(loadCatalogCmd(context.Background(), h.feed, false)())

	assert.Error(t, m.fatal)
	assert.Contains(t, m.View(), LoadErrorMessage)
	assert.Nil(t, press(m, "d"), "the gallery is not interactive")
	assert.Equal(t, tea.QuitMsg{}, press(m, "q")())
}

func TestLoadingView(t *testing.T) {
	m, _ := newModel(t, 40, 5)
	assert.Contains(t, m.View(), "Loading cats…")
	assert.Equal(t, tea.QuitMsg{}, press(m, "q")())
}

func TestLightboxIgnoresStaleDetail(t *testing.T) {
	m, h := loadedModel(t, 100, 20)

	first := press(m, "enter")
	require.Equal(t, modeLightbox, m.mode)
	assert.Equal(t, 10, m.lb.item.Number)
	assert.Contains(t, m.View(), "Loading…")

	second := press(m, "right")
	assert.Equal(t, 9, m.lb.item.Number)
	row, _ := m.currentRow()
	assert.Equal(t, 9, row.Item.Number, "the grid follows the lightbox")

	stale := collect(first, time.Second)
	fresh := collect(second, time.Second)
	require.Len(t, stale, 1)
	require.Len(t, fresh, 1)

	m.Update(stale[0])
	assert.False(t, m.lb.loaded)
	m.Update(fresh[0])
	require.True(t, m.lb.loaded)
	assert.Equal(t, "prompt 9", m.lb.detail.Prompt)
	assert.Equal(t, []catalog.Tab{catalog.TabStory, catalog.TabIdea}, m.lb.tabs)

	// the month is cached now; the next cat shows immediately
	assert.Nil(t, press(m, "right"))
	assert.True(t, m.lb.loaded)
	assert.Equal(t, "prompt 8", m.lb.detail.Prompt)
	h.feed.mu.Lock()
	assert.Equal(t, []string{"2024-02"}, h.feed.fetched)
	h.feed.mu.Unlock()

	press(m, "tab")
	assert.Equal(t, 1, m.lb.tab)
	press(m, "tab")
	assert.Equal(t, 0, m.lb.tab)

	press(m, "esc")
	assert.Equal(t, modeGrid, m.mode)
	assert.False(t, m.gal.IsOpen())
}

func TestLightboxNavigationBounds(t *testing.T) {
	m, _ := loadedModel(t, 100, 20)
	run(m, press(m, "enter"))
	assert.Nil(t, press(m, "left"))
	assert.Equal(t, 10, m.lb.item.Number)
	assert.False(t, m.gal.HasPrev())
	assert.True(t, m.gal.HasNext())
}

func TestLightboxActions(t *testing.T) {
	m, h := loadedModel(t, 100, 20)
	press(m, "down")
	press(m, "down")
	run(m, press(m, "enter"))
	require.Equal(t, 8, m.lb.item.Number)
	require.True(t, m.lb.loaded)

	run(m, press(m, "y"))
	assert.Equal(t, []string{"prompt 8"}, h.copied)
	assert.Equal(t, "Copied!", m.status)

	run(m, press(m, "o"))
	assert.Equal(t, []string{"https://example.com/c/8"}, h.opened)

	run(m, press(m, "s"))
	data, err := os.ReadFile(filepath.Join(h.downDir, "catime-cat-8.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNG8", string(data))
	assert.Contains(t, m.status, "Saved")

	run(m, press(m, "right"))
	require.Equal(t, 7, m.lb.item.Number)
	run(m, press(m, "s"))
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "opened")
	assert.Contains(t, h.opened, "https://example.com/7.png")

	run(m, press(m, "o"))
	assert.Equal(t, "No comments yet", m.status)
}

func TestFilterKeys(t *testing.T) {
	m, _ := loadedModel(t, 100, 20)

	press(m, "m")
	assert.Equal(t, "flux", m.gal.Filter().Model)
	assert.Len(t, m.gal.Filtered(), 5)
	press(m, "m")
	assert.Equal(t, "sdxl", m.gal.Filter().Model)
	press(m, "m")
	assert.Empty(t, m.gal.Filter().Model)

	press(m, "c")
	assert.Equal(t, "Ghost", m.gal.Filter().Character)
	assert.Len(t, m.gal.Filtered(), 1)
	assert.Contains(t, m.View(), "character:Ghost")

	press(m, "i")
	assert.Equal(t, gallery.InspirationOriginal, m.gal.Filter().Inspiration)

	press(m, "x")
	assert.True(t, m.gal.Filter().IsZero())
	assert.Len(t, m.gal.Filtered(), 10)
	assert.Equal(t, 1, m.cursor)
}

func TestSearchIsDebounced(t *testing.T) {
	m, _ := loadedModel(t, 100, 20)
	press(m, "/")
	require.Equal(t, modeSearch, m.mode)

	first := press(m, "1")
	second := press(m, "0")
	assert.Equal(t, "10", m.search.Value())
	assert.Empty(t, m.gal.Filter().Query, "filtering waits for the debounce")

	for _, msg := range collect(first, time.Second) {
		m.Update(msg)
	}
	assert.Empty(t, m.gal.Filter().Query, "superseded keystrokes are dropped")

	for _, msg := range collect(second, time.Second) {
		m.Update(msg)
	}
	assert.Equal(t, "10", m.gal.Filter().Query)
	assert.Len(t, m.gal.Filtered(), 1)

	press(m, "enter")
	assert.Equal(t, modeGrid, m.mode)
	assert.Equal(t, "10", m.search.Value())
}

func TestDatePicker(t *testing.T) {
	m, _ := loadedModel(t, 100, 20)

	press(m, "d")
	require.Equal(t, modeDates, m.mode)
	assert.Equal(t, "Feb 2024", m.picker.Title())
	assert.Contains(t, m.View(), "Feb 2024")

	press(m, "enter")
	assert.Equal(t, modeGrid, m.mode)
	assert.Equal(t, "2024-02-01", m.gal.Filter().Date)
	require.Len(t, m.gal.Filtered(), 1)
	assert.Equal(t, 6, m.gal.Filtered()[0].Number)

	press(m, "d")
	assert.Equal(t, "2024-02-01", m.picker.Date(), "reopens on the selection")
	press(m, "[")
	press(m, "right")
	assert.Equal(t, "2024-01-02", m.picker.Date())
	press(m, "x")
	assert.Empty(t, m.gal.Filter().Date)
	assert.Equal(t, modeGrid, m.mode)
}

func TestTimelineJump(t *testing.T) {
	m, _ := loadedModel(t, 100, 6)

	press(m, "t")
	require.Equal(t, modeTimeline, m.mode)
	require.Len(t, m.timeline.entries, 3)
	assert.Equal(t, "2024-02", m.timeline.entries[m.timeline.cursor].month)

	press(m, "down")
	assert.Equal(t, "2024-01", m.timeline.entries[m.timeline.cursor].month)
	press(m, "down")
	assert.Equal(t, "2024-01", m.timeline.entries[m.timeline.cursor].month)

	press(m, "enter")
	assert.Equal(t, modeGrid, m.mode)
	row, _ := m.currentRow()
	assert.Equal(t, 5, row.Item.Number)
	assert.Equal(t, m.rows.RowOfGroup("2024-01"), m.top)
}

func TestRandomOpensLightbox(t *testing.T) {
	m, _ := loadedModel(t, 100, 20)
	run(m, press(m, "r"))
	assert.Equal(t, modeLightbox, m.mode)
	assert.True(t, m.gal.IsOpen())
	sel, _ := m.gal.Current()
	row, _ := m.currentRow()
	assert.Equal(t, sel.Item.Number, row.Item.Number)
	assert.True(t, m.lb.loaded)
}

func TestThemeToggleIsSaved(t *testing.T) {
	m, h := loadedModel(t, 100, 20)
	run(m, press(m, "T"))
	assert.Equal(t, theme.NameLight, m.th.Name)
	run(m, press(m, "T"))
	assert.Equal(t, theme.NameDark, m.th.Name)
	assert.Equal(t, []string{theme.NameLight, theme.NameDark}, h.prefs.saved)
}

func TestCharacterPage(t *testing.T) {
	m, _ := loadedModel(t, 100, 30)
	run(m, press(m, "enter"))
	require.Equal(t, 10, m.lb.item.Number)

	run(m, press(m, "p"))
	require.Equal(t, modeCharacter, m.mode)
	require.NotNil(t, m.profile.page)
	assert.Equal(t, "Mochi", m.profile.page.Profile.DisplayName())
	assert.Len(t, m.profile.page.Gallery, 1)
	assert.Contains(t, m.View(), "Mochi")

	press(m, "esc")
	assert.Equal(t, modeLightbox, m.mode)

	run(m, press(m, "right"))
	run(m, press(m, "p"))
	assert.Nil(t, m.profile.page)
	assert.Contains(t, m.profile.view.View(), "Character not found.")
}

func TestReloadKeepsFilter(t *testing.T) {
	m, h := loadedModel(t, 100, 20)
	press(m, "m")
	run(m, press(m, "enter"))

	m.Update(catalogLoadedMsg{items: h.feed.items[:4], reload: true})
	assert.Equal(t, "flux", m.gal.Filter().Model)
	assert.Len(t, m.gal.Filtered(), 2)
	assert.Equal(t, modeGrid, m.mode)
	assert.Contains(t, m.status, "Catalog reloaded")

	m.Update(catalogLoadedMsg{err: errors.New("bad json"), reload: true})
	assert.NoError(t, m.fatal, "a failed reload keeps the current catalog")
	assert.True(t, m.statusErr)
}

func TestWatchReloads(t *testing.T) {
	m, _ := loadedModel(t, 100, 20)
	events := make(chan store.Event, 1)
	started := startWatchCmd(context.Background(), func(context.Context) (<-chan store.Event, error) {
		return events, nil
	})
	_, wait := m.Update(started())
	require.NotNil(t, m.watchCh)

	events <- store.Event{Type: store.EventCatalogChanged, Path: "catlist.json"}
	run(m, wait)
	assert.Contains(t, m.status, "Catalog reloaded")

	m.Update(watchEventMsg{event: store.Event{Type: store.EventCatalogRemoved, Path: "catlist.json"}})
	assert.Contains(t, m.status, "removed")

	close(events)
	m.Update(watchStoppedMsg{})
	assert.Nil(t, m.watchCh)
}

func TestCycle(t *testing.T) {
	opts := []string{"a", "b"}
	assert.Equal(t, "a", cycle(opts, ""))
	assert.Equal(t, "b", cycle(opts, "a"))
	assert.Equal(t, "", cycle(opts, "b"))
	assert.Equal(t, "", cycle(opts, "gone"))
	assert.Equal(t, "", cycle(nil, ""))
}
