package app

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/character"
	"tableflip.dev/catime/pkg/gallery"
	"tableflip.dev/catime/pkg/tui/calendar"
	"tableflip.dev/catime/pkg/tui/overlay"
)

// Date picker.

func (m *Model) openDates() {
	month, ok := m.gal.NewestMonth()
	if !ok {
		month = time.Now().UTC()
	}
	m.picker = calendar.NewPicker(month, m.gal.Filter().Date, gallery.Dates(m.gal.Items()))
	m.mode = modeDates
}

func (m *Model) handleDatesKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Close), key.Matches(msg, keys.Quit):
		m.mode = modeGrid
	case key.Matches(msg, keys.PrevMonth):
		m.picker = m.picker.PrevMonth()
	case key.Matches(msg, keys.NextMonth):
		m.picker = m.picker.NextMonth()
	case key.Matches(msg, keys.Prev):
		m.picker = m.picker.Move(-1)
	case key.Matches(msg, keys.Next):
		m.picker = m.picker.Move(1)
	case key.Matches(msg, keys.Up):
		m.picker = m.picker.Move(-7)
	case key.Matches(msg, keys.Down):
		m.picker = m.picker.Move(7)
	case key.Matches(msg, keys.Select):
		date := m.picker.Date()
		m.mode = modeGrid
		m.applyFilter(func(f *gallery.Filter) { f.Date = date })
	case key.Matches(msg, keys.Clear):
		m.mode = modeGrid
		m.applyFilter(func(f *gallery.Filter) { f.Date = "" })
	}
	return nil
}

func (m *Model) renderDates() string {
	md := m.th.Modal
	label := "All Dates"
	if d := m.gal.Filter().Date; d != "" {
		label = d
	}
	body := strings.Join([]string{
		md.Title.Render("‹ " + m.picker.Title() + " ›"),
		"",
		m.picker.View(calendar.ThemeOptions(m.th.Calendar)),
		"",
		m.th.Footer.Help.Render(label),
		m.help.ShortHelpView(pickerHelp{}.ShortHelp()),
	}, "\n")
	return md.Frame.Render(body)
}

// Timeline.

type timelineEntry struct {
	year  string
	month string
}

type timelineState struct {
	entries []timelineEntry
	cursor  int
	top     int
}

func (m *Model) openTimeline() {
	var entries []timelineEntry
	for _, year := range gallery.Timeline(m.gal.Items()) {
		entries = append(entries, timelineEntry{year: year.Year})
		for _, month := range year.Months {
			entries = append(entries, timelineEntry{year: year.Year, month: month})
		}
	}
	m.timeline = timelineState{entries: entries}
	m.timeline.move(1, 0)
	m.mode = modeTimeline
}

// move steps the cursor by delta, skipping year headings.
func (t *timelineState) move(delta, height int) {
	n := len(t.entries)
	if n == 0 {
		return
	}
	pos := t.cursor
	for next := pos + delta; next >= 0 && next < n; next += sign(delta) {
		if t.entries[next].month != "" {
			pos = next
			break
		}
	}
	if t.entries[pos].month == "" {
		// the first entry is always a heading
		for i, e := range t.entries {
			if e.month != "" {
				pos = i
				break
			}
		}
	}
	t.cursor = pos
	if height > 0 {
		if t.cursor < t.top {
			t.top = t.cursor
		}
		if t.cursor >= t.top+height {
			t.top = t.cursor - height + 1
		}
	}
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

func (m *Model) timelineHeight() int {
	return max(3, m.overlayHeight()-6)
}

func (m *Model) handleTimelineKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Close), key.Matches(msg, keys.Quit):
		m.mode = modeGrid
	case key.Matches(msg, keys.Up):
		m.timeline.move(-1, m.timelineHeight())
	case key.Matches(msg, keys.Down):
		m.timeline.move(1, m.timelineHeight())
	case key.Matches(msg, keys.Select):
		m.mode = modeGrid
		if m.timeline.cursor >= len(m.timeline.entries) {
			return nil
		}
		month := m.timeline.entries[m.timeline.cursor].month
		if idx, ok := m.gal.JumpTo(month); ok {
			m.focusGroup(idx, month)
		}
	}
	return nil
}

func (m *Model) renderTimeline() string {
	md := m.th.Modal
	lines := []string{md.Title.Render("Timeline"), ""}
	if len(m.timeline.entries) == 0 {
		lines = append(lines, md.Body.Render("No cats yet!"))
	}
	h := m.timelineHeight()
	t := m.timeline
	for i := t.top; i < len(t.entries) && i < t.top+h; i++ {
		e := t.entries[i]
		switch {
		case e.month == "":
			lines = append(lines, md.Title.Render(e.year))
		case i == t.cursor:
			lines = append(lines, m.th.Grid.Selected.Render("▸ "+e.month))
		default:
			lines = append(lines, md.Body.Render("  "+e.month))
		}
	}
	lines = append(lines, "", m.help.ShortHelpView([]key.Binding{keys.Up, keys.Down, keys.Select, keys.Close}))
	return md.Frame.Render(strings.Join(lines, "\n"))
}

// Character page.

type profileState struct {
	id    string
	page  *character.Page
	view  viewport.Model
	ready bool
}

func (p *profileState) resize(width, height int) {
	if !p.ready {
		p.view = viewport.New(width, height)
		p.ready = true
		return
	}
	p.view.Width = width
	p.view.Height = height
}

func (m *Model) resizeProfile() {
	frame := m.th.Lightbox.Frame
	m.profile.resize(m.overlayWidth()-frame.GetHorizontalFrameSize(), m.overlayHeight()-frame.GetVerticalFrameSize()-2)
}

func (m *Model) openProfile(id string) tea.Cmd {
	m.prevMode = m.mode
	m.mode = modeCharacter
	m.resizeProfile()
	m.profile.id = id
	m.profile.page = nil
	m.profile.view.SetContent("Loading…")
	return loadCharacterCmd(m.ctx, m.opts.Feed, id, m.log.Named("character"))
}

func (m *Model) handleCharacter(msg characterLoadedMsg) tea.Cmd {
	if msg.id != m.profile.id || m.mode != modeCharacter {
		return nil
	}
	m.profile.page = msg.page
	if msg.err != nil {
		m.log.Debug("character load failed", zap.String("id", msg.id), zap.Error(msg.err))
		text := "Could not load this character."
		if errors.Is(msg.err, character.ErrNotFound) {
			text = "Character not found."
		}
		m.profile.view.SetContent(text)
		return nil
	}
	out, err := msg.page.Render(m.profile.view.Width, m.th.Name)
	if err != nil {
		m.log.Warn("rendering character page failed", zap.Error(err))
		out = msg.page.Markdown()
	}
	m.profile.view.SetContent(out)
	m.profile.view.GotoTop()
	return nil
}

func (m *Model) handleCharacterKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Close) || key.Matches(msg, keys.Quit) {
		m.mode = m.prevMode
		if m.mode == modeCharacter {
			m.mode = modeGrid
		}
		return nil
	}
	var cmd tea.Cmd
	m.profile.view, cmd = m.profile.view.Update(msg)
	return cmd
}

func (m *Model) renderProfile() string {
	md := m.th.Modal
	title := "Character"
	if m.profile.page != nil {
		title = m.profile.page.Profile.DisplayName()
	}
	body := strings.Join([]string{
		md.Title.Render(title),
		m.profile.view.View(),
		m.help.ShortHelpView([]key.Binding{keys.Up, keys.Down, keys.Close}),
	}, "\n")
	return body
}

// View implements tea.Model.
func (m *Model) View() string {
	w, h := m.size()
	if m.loading {
		return overlay.Compose("", w, h, m.th.Modal.Body.Render("Loading cats…"), overlay.Centered)
	}
	if m.fatal != nil {
		msg := strings.Join([]string{
			m.th.Footer.Error.Render(LoadErrorMessage),
			m.th.Footer.Help.Render(m.fatal.Error()),
			"",
			m.th.Footer.Help.Render("press q to quit"),
		}, "\n")
		return overlay.Compose("", w, h, msg, overlay.Centered)
	}

	lines := []string{m.renderHeader(), m.renderSearch()}
	lines = append(lines, m.renderList()...)
	for len(lines) < h-1 {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderFooter())
	base := strings.Join(lines, "\n")

	switch m.mode {
	case modeLightbox:
		return overlay.Compose(base, w, h, m.renderLightbox(), overlay.Centered)
	case modeDates:
		return overlay.Compose(base, w, h, m.renderDates(), overlay.Centered)
	case modeTimeline:
		return overlay.Compose(base, w, h, m.renderTimeline(), overlay.Centered)
	case modeCharacter:
		return overlay.Compose(base, w, h, m.th.Lightbox.Frame.Render(m.renderProfile()), overlay.Centered)
	case modeHelp:
		return overlay.Compose(base, w, h, m.th.Modal.Frame.Render(m.help.View(gridHelp{})), overlay.Centered)
	}
	return base
}

func (m *Model) renderFooter() string {
	if m.status != "" {
		if m.statusErr {
			return m.th.Footer.Error.Render(m.status)
		}
		return m.th.Footer.Status.Render(m.status)
	}
	switch m.mode {
	case modeLightbox:
		return m.help.ShortHelpView(lightboxHelp{}.ShortHelp())
	case modeDates:
		return m.help.ShortHelpView(pickerHelp{}.ShortHelp())
	}
	return m.help.ShortHelpView(gridHelp{}.ShortHelp())
}
