// Package calendar renders the month grid used by the date picker.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/catime/pkg/tui/theme"
)

const weekHeader = "Su Mo Tu We Th Fr Sa"

// Day describes a single day rendered in the calendar.
type Day struct {
	Day        int
	HasEntry   bool
	IsCursor   bool
	IsSelected bool
}

// Options controls calendar styling.
type Options struct {
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	EntryStyle    lipgloss.Style
	CursorStyle   lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowHeader    bool
}

// ThemeOptions maps the calendar theme onto rendering options.
func ThemeOptions(t theme.CalendarTheme) Options {
	return Options{
		HeaderStyle:   t.Header,
		EmptyStyle:    t.Empty,
		EntryStyle:    t.HasCat,
		CursorStyle:   t.Cursor,
		SelectedStyle: t.Selected,
		ShowHeader:    true,
	}
}

// Render produces a multi-line calendar string for the given month.
func Render(month time.Time, days []Day, opts Options) string {
	if month.IsZero() {
		return ""
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := DaysIn(month)

	byDay := make(map[int]Day, len(days))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= daysInMonth {
			byDay[d.Day] = d
		}
	}

	var lines []string
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(weekHeader))
	}

	startOffset := int(first.Weekday())
	rows := (startOffset + daysInMonth + 6) / 7

	for row := 0; row < rows; row++ {
		cells := make([]string, 0, 7)
		for col := 0; col < 7; col++ {
			day := row*7 + col - startOffset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, "  ")
				continue
			}
			cells = append(cells, renderDay(byDay[day], day, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(info Day, day int, opts Options) string {
	text := fmt.Sprintf("%2d", day)

	style := opts.EmptyStyle
	if info.HasEntry {
		style = opts.EntryStyle
	}
	if info.IsCursor {
		style = style.Inherit(opts.CursorStyle)
	}
	if info.IsSelected {
		style = opts.SelectedStyle
	}
	return style.Render(text)
}

// DaysIn returns the number of days in a month.
func DaysIn(month time.Time) int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Picker is the date picker state: a displayed month and a day cursor.
type Picker struct {
	Month  time.Time
	Cursor int
	// Selected is the active "YYYY-MM-DD" date filter, or "".
	Selected string
	// Dates holds the "YYYY-MM-DD" keys that have cats.
	Dates map[string]bool
}

// NewPicker opens on month with the cursor on the first day, or on the
// selected date when one is set.
func NewPicker(month time.Time, selected string, dates map[string]bool) Picker {
	p := Picker{Month: firstOf(month), Cursor: 1, Selected: selected, Dates: dates}
	if t, err := time.Parse("2006-01-02", selected); err == nil {
		p.Month = firstOf(t)
		p.Cursor = t.Day()
	}
	return p
}

func firstOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PrevMonth moves the display one month back, clamping the cursor.
func (p Picker) PrevMonth() Picker { return p.shiftMonth(-1) }

// NextMonth moves the display one month forward, clamping the cursor.
func (p Picker) NextMonth() Picker { return p.shiftMonth(1) }

func (p Picker) shiftMonth(delta int) Picker {
	p.Month = firstOf(p.Month).AddDate(0, delta, 0)
	if n := DaysIn(p.Month); p.Cursor > n {
		p.Cursor = n
	}
	return p
}

// Move shifts the cursor by delta days, crossing month boundaries.
func (p Picker) Move(delta int) Picker {
	t := time.Date(p.Month.Year(), p.Month.Month(), p.Cursor, 0, 0, 0, 0, time.UTC).AddDate(0, 0, delta)
	p.Month = firstOf(t)
	p.Cursor = t.Day()
	return p
}

// Date is the "YYYY-MM-DD" key under the cursor.
func (p Picker) Date() string {
	return fmt.Sprintf("%s-%02d", p.Month.Format("2006-01"), p.Cursor)
}

// Title is the displayed month, e.g. "Aug 2024".
func (p Picker) Title() string {
	return p.Month.Format("Jan 2006")
}

// View renders the month grid with has-cat, cursor and selection marks.
func (p Picker) View(opts Options) string {
	prefix := p.Month.Format("2006-01-")
	n := DaysIn(p.Month)
	days := make([]Day, 0, n)
	for d := 1; d <= n; d++ {
		key := fmt.Sprintf("%s%02d", prefix, d)
		days = append(days, Day{
			Day:        d,
			HasEntry:   p.Dates[key],
			IsCursor:   d == p.Cursor,
			IsSelected: key == p.Selected,
		})
	}
	return Render(p.Month, days, opts)
}
