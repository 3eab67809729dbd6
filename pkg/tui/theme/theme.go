package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	NameDark  = "dark"
	NameLight = "light"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Name     string
	Header   HeaderTheme
	Grid     GridTheme
	Lightbox LightboxTheme
	Calendar CalendarTheme
	Footer   FooterTheme
	Modal    ModalTheme
}

// HeaderTheme styles the title, count and filter summary.
type HeaderTheme struct {
	Title  lipgloss.Style
	Count  lipgloss.Style
	Filter lipgloss.Style
	Search lipgloss.Style
}

// GridTheme styles the card list.
type GridTheme struct {
	Separator lipgloss.Style
	Card      lipgloss.Style
	Selected  lipgloss.Style
	Number    lipgloss.Style
	Time      lipgloss.Style
	Tag       lipgloss.Style
	News      lipgloss.Style
	Likes     lipgloss.Style
	Sentinel  lipgloss.Style
}

// LightboxTheme styles the detail overlay.
type LightboxTheme struct {
	Frame     lipgloss.Style
	Title     lipgloss.Style
	Meta      lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Body      lipgloss.Style
	Prompt    lipgloss.Style
	Hint      lipgloss.Style
}

// CalendarTheme styles the date picker.
type CalendarTheme struct {
	Header   lipgloss.Style
	Empty    lipgloss.Style
	HasCat   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ModalTheme styles centered modal overlays (timeline, calendar, character).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

type palette struct {
	accent, accentAlt, text, muted, faint, selectBg, selectFg, border, news, danger string
}

var (
	darkPalette = palette{
		accent: "212", accentAlt: "86", text: "252", muted: "245", faint: "241",
		selectBg: "63", selectFg: "230", border: "62", news: "214", danger: "203",
	}
	lightPalette = palette{
		accent: "162", accentAlt: "30", text: "235", muted: "242", faint: "248",
		selectBg: "153", selectFg: "17", border: "111", news: "166", danger: "160",
	}
)

// Default returns the dark theme.
func Default() Theme { return build(NameDark, darkPalette) }

// Light returns the light theme.
func Light() Theme { return build(NameLight, lightPalette) }

// ByName returns the named theme, or Default for unknown names.
func ByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), NameLight) {
		return Light()
	}
	return Default()
}

// Toggle flips between dark and light.
func (t Theme) Toggle() Theme {
	if t.Name == NameLight {
		return Default()
	}
	return Light()
}

// Detect picks a theme from the terminal background.
func Detect() string {
	if termenv.HasDarkBackground() {
		return NameDark
	}
	return NameLight
}

// Resolve returns the saved preference when set, then the configured name,
// then the detected background.
func Resolve(saved, configured string, detect func() string) string {
	for _, name := range []string{saved, configured} {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case NameDark:
			return NameDark
		case NameLight:
			return NameLight
		}
	}
	if detect == nil {
		return NameDark
	}
	return detect()
}

func build(name string, p palette) Theme {
	c := lipgloss.Color
	tab := lipgloss.NewStyle().Foreground(c(p.muted)).Padding(0, 1)
	return Theme{
		Name: name,
		Header: HeaderTheme{
			Title:  lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
			Count:  lipgloss.NewStyle().Foreground(c(p.muted)),
			Filter: lipgloss.NewStyle().Foreground(c(p.accentAlt)),
			Search: lipgloss.NewStyle().Foreground(c(p.text)),
		},
		Grid: GridTheme{
			Separator: lipgloss.NewStyle().Foreground(c(p.accentAlt)).Bold(true),
			Card:      lipgloss.NewStyle().Foreground(c(p.text)),
			Selected:  lipgloss.NewStyle().Background(c(p.selectBg)).Foreground(c(p.selectFg)),
			Number:    lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
			Time:      lipgloss.NewStyle().Foreground(c(p.faint)),
			Tag:       lipgloss.NewStyle().Foreground(c(p.accentAlt)),
			News:      lipgloss.NewStyle().Foreground(c(p.news)),
			Likes:     lipgloss.NewStyle().Foreground(c(p.danger)),
			Sentinel:  lipgloss.NewStyle().Foreground(c(p.faint)).Italic(true),
		},
		Lightbox: LightboxTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(c(p.border)).
				Padding(0, 1),
			Title:     lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
			Meta:      lipgloss.NewStyle().Foreground(c(p.muted)),
			Tab:       tab,
			ActiveTab: tab.Foreground(c(p.selectFg)).Background(c(p.selectBg)).Bold(true),
			Body:      lipgloss.NewStyle().Foreground(c(p.text)),
			Prompt:    lipgloss.NewStyle().Foreground(c(p.text)).Italic(true),
			Hint:      lipgloss.NewStyle().Foreground(c(p.faint)),
		},
		Calendar: CalendarTheme{
			Header:   lipgloss.NewStyle().Foreground(c(p.faint)).Bold(true),
			Empty:    lipgloss.NewStyle().Foreground(c(p.faint)),
			HasCat:   lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
			Cursor:   lipgloss.NewStyle().Underline(true),
			Selected: lipgloss.NewStyle().Background(c(p.selectBg)).Foreground(c(p.selectFg)),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(c(p.muted)),
			Status: lipgloss.NewStyle().Foreground(c(p.accentAlt)),
			Error:  lipgloss.NewStyle().Foreground(c(p.danger)).Bold(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(c(p.border)).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
			Body:  lipgloss.NewStyle().Foreground(c(p.text)),
		},
	}
}
