package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/gallery"
	"tableflip.dev/catime/pkg/printers"
)

// lightbox holds what the detail overlay displays for the current selection.
type lightbox struct {
	item   catalog.Item
	detail catalog.Detail
	loaded bool
	tabs   []catalog.Tab
	tab    int
}

func (lb *lightbox) reset(item catalog.Item) {
	*lb = lightbox{item: item}
}

func (lb *lightbox) setDetail(d catalog.Detail) {
	lb.detail = d
	lb.loaded = true
	lb.tabs = d.Tabs()
	lb.tab = 0
}

func (lb *lightbox) activeTab() (catalog.Tab, bool) {
	if lb.tab < 0 || lb.tab >= len(lb.tabs) {
		return "", false
	}
	return lb.tabs[lb.tab], true
}

func (lb *lightbox) cycleTab(delta int) {
	if len(lb.tabs) == 0 {
		return
	}
	lb.tab = (lb.tab + delta + len(lb.tabs)) % len(lb.tabs)
}

func (m *Model) openLightbox(item catalog.Item) tea.Cmd {
	m.mode = modeLightbox
	return m.showSelection(m.gal.Open(item))
}

// showSelection resets the overlay for sel and fetches its detail. A cached
// month is applied immediately.
func (m *Model) showSelection(sel gallery.Selection) tea.Cmd {
	m.lb.reset(sel.Item)
	if m.details.Cached(sel.Item) {
		m.lb.setDetail(m.details.Get(m.ctx, sel.Item))
		return nil
	}
	return fetchDetailCmd(m.ctx, m.details, sel)
}

func (m *Model) closeLightbox() {
	m.gal.Close()
	m.mode = modeGrid
}

func (m *Model) handleLightboxKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Close), key.Matches(msg, keys.Quit):
		m.closeLightbox()
	case key.Matches(msg, keys.Prev):
		return m.navigate(-1)
	case key.Matches(msg, keys.Next):
		return m.navigate(1)
	case key.Matches(msg, keys.NextTab):
		m.lb.cycleTab(1)
	case key.Matches(msg, keys.PrevTab):
		m.lb.cycleTab(-1)
	case key.Matches(msg, keys.Copy):
		if !m.lb.loaded || m.lb.detail.Prompt == "" {
			return m.setStatus("No prompt to copy")
		}
		return copyCmd(m.opts.Clipboard, m.lb.detail.Prompt)
	case key.Matches(msg, keys.Comments):
		if u := m.gal.CommentURL(m.lb.item); u != "" {
			return openURLCmd(m.opts.OpenURL, u)
		}
		return m.setStatus("No comments yet")
	case key.Matches(msg, keys.Save):
		if m.lb.item.URL == "" {
			return nil
		}
		m.status = "Downloading…"
		m.statusErr = false
		return downloadCmd(m.ctx, m.opts.Feed, m.lb.item, m.opts.DownloadDir, m.opts.OpenURL)
	case key.Matches(msg, keys.Profile):
		if m.lb.item.Character == "" {
			return m.setStatus("No character for this cat")
		}
		return m.openProfile(m.lb.item.Character)
	case key.Matches(msg, keys.Theme):
		return m.toggleTheme()
	}
	return nil
}

func (m *Model) navigate(delta int) tea.Cmd {
	sel, ok := m.gal.Navigate(delta)
	if !ok {
		return nil
	}
	m.focusIndex(sel.Index)
	return m.showSelection(sel)
}

func (m *Model) handleDownload(msg downloadMsg) tea.Cmd {
	switch {
	case msg.err == nil:
		m.log.Info("cat downloaded", zap.Int("number", msg.item.Number), zap.String("path", msg.path))
		return m.setStatus("Saved " + msg.path)
	case msg.opened:
		m.log.Warn("download failed; opened in browser", zap.Int("number", msg.item.Number), zap.Error(msg.err))
		return m.setError("Download failed; opened " + msg.item.URL)
	default:
		m.log.Warn("download failed", zap.Int("number", msg.item.Number), zap.Error(msg.err))
		return m.setError("Download failed: " + msg.err.Error())
	}
}

func (m *Model) overlayWidth() int {
	w, _ := m.size()
	return max(20, min(w-4, 96))
}

func (m *Model) overlayHeight() int {
	_, h := m.size()
	return max(6, h-4)
}

func (m *Model) renderLightbox() string {
	lt := m.th.Lightbox
	item := m.lb.item
	width := m.overlayWidth() - lt.Frame.GetHorizontalFrameSize()
	height := m.overlayHeight() - lt.Frame.GetVerticalFrameSize()

	var head []string
	head = append(head, lt.Title.Render(wrap.String(lightboxTitle(item), width)))

	var tags []string
	if tag := item.CharacterTag(); tag != "" {
		tags = append(tags, tag)
	}
	if label := item.InspirationLabel(); label != "" {
		tags = append(tags, label)
	}
	if item.Model != "" {
		tags = append(tags, item.Model)
	}
	if likes := m.gal.Likes(item); likes > 0 {
		tags = append(tags, fmt.Sprintf("♥ %d", likes))
	}
	if m.gal.CommentURL(item) != "" {
		tags = append(tags, "💬 comments")
	}
	if len(tags) > 0 {
		head = append(head, lt.Meta.Render(strings.Join(tags, "  ")))
	}
	head = append(head, lt.Meta.Render(wrap.String(placeholder+" "+item.URL, width)))
	head = append(head, "")

	prompt := "Loading…"
	if m.lb.loaded {
		prompt = m.lb.detail.Prompt
	}
	if prompt != "" {
		head = append(head, lt.Title.Render("Prompt"), lt.Prompt.Render(wordwrap.String(prompt, width)), "")
	}

	if len(m.lb.tabs) > 0 {
		var bar []string
		for i, tab := range m.lb.tabs {
			style := lt.Tab
			if i == m.lb.tab {
				style = lt.ActiveTab
			}
			bar = append(bar, style.Render(tab.Label()))
		}
		head = append(head, strings.Join(bar, " "))
	}

	var body []string
	if tab, ok := m.lb.activeTab(); ok {
		text := wordwrap.String(printers.TabText(m.lb.detail, tab), width)
		body = strings.Split(lt.Body.Render(text), "\n")
	}

	hint := lt.Hint.Render(m.lightboxHint())
	room := height - len(strings.Split(strings.Join(head, "\n"), "\n")) - 2
	if room < 0 {
		room = 0
	}
	if len(body) > room {
		body = append(body[:max(0, room-1)], lt.Hint.Render("…"))
	}

	content := strings.Join(head, "\n")
	if len(body) > 0 {
		content += "\n" + strings.Join(body, "\n")
	}
	content += "\n\n" + hint
	return lt.Frame.Width(width + lt.Frame.GetHorizontalPadding()).Render(content)
}

func lightboxTitle(item catalog.Item) string {
	title := fmt.Sprintf("#%d", item.Number)
	if item.Title != "" {
		title += " " + item.Title
	}
	return title + " · " + item.Timestamp
}

func (m *Model) lightboxHint() string {
	var nav []string
	if m.gal.HasPrev() {
		nav = append(nav, "← prev")
	}
	if m.gal.HasNext() {
		nav = append(nav, "→ next")
	}
	nav = append(nav, m.help.ShortHelpView([]key.Binding{keys.NextTab, keys.Copy, keys.Save, keys.Comments, keys.Profile, keys.Close}))
	return strings.Join(nav, " • ")
}
