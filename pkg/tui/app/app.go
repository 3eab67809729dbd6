// Package app hosts the Bubble Tea program for the catime gallery.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/browser"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/character"
	"tableflip.dev/catime/pkg/feed"
	"tableflip.dev/catime/pkg/gallery"
	"tableflip.dev/catime/pkg/store"
	"tableflip.dev/catime/pkg/tui/calendar"
	"tableflip.dev/catime/pkg/tui/theme"
)

// LoadErrorMessage replaces the gallery when the catalog cannot be loaded.
const LoadErrorMessage = "載入貓咪列表失敗，請稍後重試"

const (
	searchDebounce = 300 * time.Millisecond
	statusTimeout  = 3 * time.Second
	// loadAhead is how many rows below the visible area must be rendered
	// before the next page is requested.
	loadAhead = 5
)

// Feed is everything the gallery reads from the network.
type Feed interface {
	WorkingSet(ctx context.Context) ([]catalog.Item, error)
	Likes(ctx context.Context) catalog.Likes
	Comments(ctx context.Context) catalog.Comments
	gallery.DetailFetcher
	character.Fetcher
	feed.ImageFetcher
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	SetTheme(name string) error
}

// Options configures the gallery program.
type Options struct {
	Feed        Feed
	PageSize    int
	Theme       theme.Theme
	Prefs       ThemeStore
	DownloadDir string
	// Watch, when set, is started on Init; each event reloads the catalog.
	Watch     func(ctx context.Context) (<-chan store.Event, error)
	Clipboard func(text string) error
	OpenURL   func(url string) error
	Log       *zap.Logger
	Rand      *rand.Rand
}

type mode int

const (
	modeGrid mode = iota
	modeSearch
	modeLightbox
	modeDates
	modeTimeline
	modeCharacter
	modeHelp
)

// Model is the root gallery model.
type Model struct {
	ctx  context.Context
	opts Options
	log  *zap.Logger

	th   theme.Theme
	help help.Model

	width  int
	height int

	loading bool
	fatal   error

	rows    *gallery.Rows
	gal     *gallery.Coordinator
	details *gallery.DetailCache
	models  []string
	chars   []string

	// cursor is a row position in rows; top is the first visible row.
	cursor int
	top    int

	mode      mode
	prevMode  mode
	search    textinput.Model
	searchSeq int

	lb       lightbox
	picker   calendar.Picker
	timeline timelineState
	profile  profileState

	status    string
	statusErr bool
	statusSeq int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New constructs the root model. The catalog is requested by Init.
func New(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.OpenURL
	}
	if opts.Theme.Name == "" {
		opts.Theme = theme.Default()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search number or title"
	ti.CharLimit = 64

	rows := &gallery.Rows{}
	details := gallery.NewDetailCache(opts.Feed, opts.Log.Named("details"))
	m := &Model{
		ctx:     ctx,
		opts:    opts,
		log:     opts.Log,
		th:      opts.Theme,
		help:    help.New(),
		loading: true,
		rows:    rows,
		details: details,
		search:  ti,
	}
	m.gal = m.newCoordinator(nil, nil, nil)
	return m
}

func (m *Model) newCoordinator(items []catalog.Item, likes catalog.Likes, comments catalog.Comments) *gallery.Coordinator {
	return gallery.New(items, gallery.Options{
		PageSize: m.opts.PageSize,
		Sink:     m.rows,
		Details:  m.details,
		Likes:    likes,
		Comments: comments,
		Rand:     m.opts.Rand,
	})
}

// Run launches the Bubble Tea program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadCatalogCmd(m.ctx, m.opts.Feed, false)}
	if m.opts.Watch != nil {
		cmds = append(cmds, startWatchCmd(m.ctx, m.opts.Watch))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-4)
		m.resizeProfile()
		m.fill()
		m.ensureVisible()
	case catalogLoadedMsg:
		cmds = append(cmds, m.handleCatalog(msg))
	case detailLoadedMsg:
		if m.gal.Accept(msg.epoch) {
			m.lb.setDetail(msg.detail)
		}
	case searchMsg:
		if msg.seq == m.searchSeq {
			m.applyFilter(func(f *gallery.Filter) { f.Query = msg.value })
		}
	case characterLoadedMsg:
		cmds = append(cmds, m.handleCharacter(msg))
	case downloadMsg:
		cmds = append(cmds, m.handleDownload(msg))
	case copiedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setError("copy failed: "+msg.err.Error()))
		} else {
			cmds = append(cmds, m.setStatus("Copied!"))
		}
	case browserMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setError("could not open "+msg.url))
		}
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
	case watchStartedMsg:
		if msg.err != nil {
			cmds = append(cmds, m.setError("watch: "+msg.err.Error()))
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		cmds = append(cmds, m.handleWatchEvent(msg.event), m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopWatch()
			return m, tea.Quit
		}
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleCatalog(msg catalogLoadedMsg) tea.Cmd {
	if msg.err != nil {
		if msg.reload && m.fatal == nil && !m.loading {
			m.log.Warn("catalog reload failed", zap.Error(msg.err))
			return m.setError("reload failed: " + msg.err.Error())
		}
		m.loading = false
		m.fatal = msg.err
		m.log.Error("catalog load failed", zap.Error(msg.err))
		return nil
	}

	prev := m.gal.Filter()
	m.loading = false
	m.fatal = nil
	m.models = gallery.Models(msg.items)
	m.chars = gallery.Characters(msg.items)
	m.gal = m.newCoordinator(msg.items, msg.likes, msg.comments)
	m.log.Debug("catalog loaded", zap.Int("cats", len(msg.items)), zap.Bool("reload", msg.reload))
	if !msg.reload {
		m.resetCursor()
		return nil
	}
	m.gal.SetFilter(prev)
	m.resetCursor()
	if m.mode == modeLightbox {
		m.mode = modeGrid
	}
	return m.setStatus(fmt.Sprintf("Catalog reloaded · %s", m.gal.CountLabel()))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.loading {
		if key.Matches(msg, keys.Quit) {
			return tea.Quit
		}
		return nil
	}
	if m.fatal != nil {
		if key.Matches(msg, keys.Quit) || key.Matches(msg, keys.Close) {
			return tea.Quit
		}
		return nil
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeLightbox:
		return m.handleLightboxKey(msg)
	case modeDates:
		return m.handleDatesKey(msg)
	case modeTimeline:
		return m.handleTimelineKey(msg)
	case modeCharacter:
		return m.handleCharacterKey(msg)
	case modeHelp:
		if key.Matches(msg, keys.Help) || key.Matches(msg, keys.Close) || key.Matches(msg, keys.Quit) {
			m.help.ShowAll = false
			m.mode = modeGrid
		}
		return nil
	default:
		return m.handleGridKey(msg)
	}
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		m.stopWatch()
		return tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = true
		m.mode = modeHelp
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, keys.Home):
		m.resetCursor()
	case key.Matches(msg, keys.End):
		for m.gal.LoadMore() {
		}
		m.cursor = m.rows.Len() - 1
		m.ensureVisible()
	case key.Matches(msg, keys.Open):
		if row, ok := m.currentRow(); ok && row.Kind == gallery.RowCard {
			return m.openLightbox(row.Item)
		}
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		return m.search.Focus()
	case key.Matches(msg, keys.Model):
		next := cycle(m.models, m.gal.Filter().Model)
		m.applyFilter(func(f *gallery.Filter) { f.Model = next })
	case key.Matches(msg, keys.Character):
		next := cycle(m.chars, m.gal.Filter().Character)
		m.applyFilter(func(f *gallery.Filter) { f.Character = next })
	case key.Matches(msg, keys.Insp):
		m.applyFilter(func(f *gallery.Filter) { f.Inspiration = f.Inspiration.Next() })
	case key.Matches(msg, keys.Clear):
		m.search.SetValue("")
		m.searchSeq++
		m.gal.SetFilter(gallery.Filter{})
		m.resetCursor()
	case key.Matches(msg, keys.Dates):
		m.openDates()
	case key.Matches(msg, keys.Timeline):
		m.openTimeline()
	case key.Matches(msg, keys.Random):
		sel, ok := m.gal.Random()
		if !ok {
			return m.setStatus("No cats yet! Check back in an hour.")
		}
		m.focusIndex(sel.Index)
		m.mode = modeLightbox
		return m.showSelection(sel)
	case key.Matches(msg, keys.Theme):
		return m.toggleTheme()
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		m.mode = modeGrid
		return nil
	}
	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != prev {
		m.searchSeq++
		seq := m.searchSeq
		return tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchMsg{seq: seq, value: value}
		}))
	}
	return cmd
}

// applyFilter mutates the filter state and rewinds the list.
func (m *Model) applyFilter(mutate func(f *gallery.Filter)) {
	m.gal.UpdateFilter(mutate)
	m.resetCursor()
}

func (m *Model) toggleTheme() tea.Cmd {
	m.th = m.th.Toggle()
	if m.opts.Prefs != nil {
		if err := m.opts.Prefs.SetTheme(m.th.Name); err != nil {
			m.log.Warn("saving theme preference failed", zap.Error(err))
			return m.setError("theme not saved: " + err.Error())
		}
	}
	return m.setStatus("Theme: " + m.th.Name)
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusErr = false
	return m.expireStatus()
}

func (m *Model) setError(s string) tea.Cmd {
	m.status = s
	m.statusErr = true
	return m.expireStatus()
}

func (m *Model) expireStatus() tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) handleWatchEvent(ev store.Event) tea.Cmd {
	switch ev.Type {
	case store.EventCatalogRemoved:
		return m.setError("local catalog removed: " + ev.Path)
	default:
		return loadCatalogCmd(m.ctx, m.opts.Feed, true)
	}
}

// cycle returns the option after current, wrapping to "" (no filter).
func cycle(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0]
	}
	for i, opt := range options {
		if opt == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	return ""
}

func filterSummary(f gallery.Filter) string {
	var parts []string
	if f.Model != "" {
		parts = append(parts, "model:"+f.Model)
	}
	if f.Character != "" {
		parts = append(parts, "character:"+f.Character)
	}
	if f.Inspiration != "" && f.Inspiration != gallery.InspirationAll {
		parts = append(parts, "inspiration:"+string(f.Inspiration))
	}
	if f.Date != "" {
		parts = append(parts, "date:"+f.Date)
	}
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Query))
	}
	return strings.Join(parts, "  ")
}
