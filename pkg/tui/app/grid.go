package app

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/gallery"
)

const placeholder = "🐱"

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}

// listHeight is the number of list lines between the header, search and
// footer lines.
func (m *Model) listHeight() int {
	_, h := m.size()
	return max(1, h-3)
}

func (m *Model) currentRow() (gallery.Row, bool) {
	rows := m.rows.All()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return gallery.Row{}, false
	}
	return rows[m.cursor], true
}

// fill requests pages while the end of the rendered list is within loadAhead
// rows of the visible area.
func (m *Model) fill() {
	for !m.gal.Paginator().Done() && m.rows.Len() < m.top+m.listHeight()+loadAhead {
		if !m.gal.LoadMore() {
			return
		}
	}
}

func (m *Model) resetCursor() {
	m.top = 0
	m.cursor = 0
	m.fill()
	if row, ok := m.currentRow(); ok && row.Kind == gallery.RowSeparator && m.rows.Len() > 1 {
		m.cursor = 1
	}
}

func (m *Model) moveCursor(delta int) {
	n := m.rows.Len()
	if n == 0 || delta == 0 {
		return
	}
	target := m.cursor + delta
	if target < 0 {
		target = 0
	}
	if target >= n {
		target = n - 1
	}
	rows := m.rows.All()
	if rows[target].Kind == gallery.RowSeparator {
		step := 1
		if delta < 0 {
			step = -1
		}
		if next := target + step; next >= 0 && next < n {
			target = next
		} else if prev := target - step; prev >= 0 && prev < n {
			target = prev
		}
	}
	m.cursor = target
	m.ensureVisible()
	m.fill()
}

func (m *Model) ensureVisible() {
	h := m.listHeight()
	if m.cursor < m.top {
		m.top = m.cursor
		// keep the month heading of the first card in view
		if m.top > 0 && m.rows.All()[m.top-1].Kind == gallery.RowSeparator {
			m.top--
		}
	}
	if m.cursor >= m.top+h {
		m.top = m.cursor - h + 1
	}
	if m.top < 0 {
		m.top = 0
	}
}

// focusIndex moves the cursor onto the card of filtered index idx.
func (m *Model) focusIndex(idx int) {
	if idx == gallery.Closed {
		return
	}
	if pos := m.rows.RowOfIndex(idx); pos >= 0 {
		m.cursor = pos
		m.ensureVisible()
		m.fill()
	}
}

// focusGroup scrolls the separator of group to the top and selects the card
// at idx.
func (m *Model) focusGroup(idx int, group string) {
	pos := m.rows.RowOfIndex(idx)
	if pos < 0 {
		return
	}
	m.cursor = pos
	if sep := m.rows.RowOfGroup(group); sep >= 0 && sep <= pos {
		m.top = sep
	}
	m.ensureVisible()
	m.fill()
}

func (m *Model) renderHeader() string {
	w, _ := m.size()
	g := m.th.Header
	parts := []string{g.Title.Render(placeholder + " Catime"), g.Count.Render(m.gal.CountLabel())}
	if summary := filterSummary(m.gal.Filter()); summary != "" {
		parts = append(parts, g.Filter.Render(summary))
	}
	return truncate.StringWithTail(strings.Join(parts, "  "), uint(w), "…")
}

func (m *Model) renderSearch() string {
	if m.mode == modeSearch || m.search.Value() != "" {
		return m.search.View()
	}
	return m.th.Footer.Help.Render("/ search")
}

func (m *Model) renderList() []string {
	w, _ := m.size()
	h := m.listHeight()
	rows := m.rows.All()

	lines := make([]string, 0, h)
	for pos := m.top; pos < len(rows) && len(lines) < h; pos++ {
		row := rows[pos]
		if row.Kind == gallery.RowSeparator {
			lines = append(lines, m.th.Grid.Separator.Render("── "+row.Group+" ──"))
			continue
		}
		lines = append(lines, m.renderCard(row.Item, pos == m.cursor, w))
	}
	if len(lines) < h {
		lines = append(lines, m.th.Grid.Sentinel.Render(m.sentinel()))
	}
	return lines
}

func (m *Model) sentinel() string {
	switch {
	case !m.gal.Paginator().Done():
		return "loading more…"
	case len(m.gal.Items()) == 0:
		return "No cats yet! Check back in an hour."
	case len(m.gal.Filtered()) == 0:
		return "No cats match these filters."
	default:
		return "· " + m.gal.CountLabel() + " ·"
	}
}

func cardTitle(item catalog.Item) string {
	title := fmt.Sprintf("#%d ", item.Number)
	if item.Title != "" {
		title += item.Title + " · "
	}
	return title + item.Timestamp
}

func (m *Model) renderCard(item catalog.Item, selected bool, width int) string {
	g := m.th.Grid
	likes := m.gal.Likes(item)

	if selected {
		parts := []string{"▸", placeholder, cardTitle(item)}
		if tag := item.CharacterTag(); tag != "" {
			parts = append(parts, tag)
		}
		if label := item.InspirationLabel(); label != "" {
			parts = append(parts, label)
		}
		if item.Model != "" {
			parts = append(parts, item.Model)
		}
		if likes > 0 {
			parts = append(parts, fmt.Sprintf("♥ %d", likes))
		}
		line := truncate.StringWithTail(strings.Join(parts, "  "), uint(width), "…")
		return g.Selected.Render(line)
	}

	parts := []string{" ", placeholder, g.Number.Render(fmt.Sprintf("#%d", item.Number))}
	text := item.Timestamp
	if item.Title != "" {
		text = item.Title + " · " + g.Time.Render(item.Timestamp)
	} else {
		text = g.Time.Render(text)
	}
	parts = append(parts, g.Card.Render(text))
	if tag := item.CharacterTag(); tag != "" {
		parts = append(parts, g.Tag.Render(tag))
	}
	if label := item.InspirationLabel(); label != "" {
		if item.IsNews() {
			parts = append(parts, g.News.Render(label))
		} else {
			parts = append(parts, g.Tag.Render(label))
		}
	}
	if item.Model != "" {
		parts = append(parts, g.Time.Render(item.Model))
	}
	if likes > 0 {
		parts = append(parts, g.Likes.Render(fmt.Sprintf("♥ %d", likes)))
	}
	return truncate.StringWithTail(strings.Join(parts, " "), uint(width), "…")
}
