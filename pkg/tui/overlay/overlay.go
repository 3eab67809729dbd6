// Package overlay draws modal panes on top of an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Placement controls overlay alignment and sizing. Positions use lipgloss
// values: 0 is top/left, 0.5 is center, 1 is bottom/right.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// Centered places the pane in the middle of the screen.
var Centered = Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// Compose overlays foreground atop background while preserving background
// content outside the overlay bounds.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalizeBackground(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bgLines, "\n")
	}

	fgLines := strings.Split(foreground, "\n")

	overlayWidth := placement.Width
	if overlayWidth <= 0 {
		for _, line := range fgLines {
			if w := ansi.PrintableRuneWidth(line); w > overlayWidth {
				overlayWidth = w
			}
		}
	}
	if overlayWidth <= 0 {
		return strings.Join(bgLines, "\n")
	}
	if overlayWidth > width {
		overlayWidth = width
	}

	overlayHeight := placement.Height
	if overlayHeight <= 0 {
		overlayHeight = len(fgLines)
	}
	if overlayHeight > height {
		overlayHeight = height
	}

	offsetX, offsetY := computeOffsets(width, height, overlayWidth, overlayHeight, placement)

	for row := 0; row < overlayHeight; row++ {
		destY := offsetY + row
		if destY < 0 || destY >= len(bgLines) {
			continue
		}
		fgLine := ""
		if row < len(fgLines) {
			fgLine = fgLines[row]
		}
		fgLine = padToWidth(fgLine, overlayWidth)

		base := stripped(bgLines[destY])
		prefix := sliceWidth(base, 0, offsetX)
		suffix := sliceWidth(base, offsetX+overlayWidth, width)
		bgLines[destY] = prefix + fgLine + suffix
	}

	return strings.Join(bgLines, "\n")
}

func normalizeBackground(view string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padToWidth(lines[i], width)
	}
	return lines
}

func padToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.PrintableRuneWidth(s)
	if w > width {
		return truncate.String(s, uint(width))
	}
	return s + strings.Repeat(" ", width-w)
}

// stripped drops escape sequences so the background behind an overlay can be
// cut by cell width. Only the rows under the pane lose their styling.
func stripped(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			in = true
		case in:
			if ansi.IsTerminator(r) {
				in = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sliceWidth(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}

	var result strings.Builder
	seen := 0
	for _, r := range s {
		rw := ansi.PrintableRuneWidth(string(r))
		next := seen + rw
		if next <= start {
			seen = next
			continue
		}
		if seen < start {
			// a wide rune straddles the left edge
			result.WriteString(strings.Repeat(" ", next-start))
			seen = next
			continue
		}
		if next > end {
			break
		}
		result.WriteRune(r)
		seen = next
	}
	return result.String()
}

func computeOffsets(width, height, overlayWidth, overlayHeight int, placement Placement) (int, int) {
	offsetX := placement.MarginX
	switch placement.Horizontal {
	case lipgloss.Right:
		offsetX = width - overlayWidth - placement.MarginX
	case lipgloss.Center:
		offsetX = (width - overlayWidth) / 2
	}
	if offsetX > width-overlayWidth {
		offsetX = width - overlayWidth
	}
	if offsetX < 0 {
		offsetX = 0
	}

	offsetY := placement.MarginY
	switch placement.Vertical {
	case lipgloss.Bottom:
		offsetY = height - overlayHeight - placement.MarginY
	case lipgloss.Center:
		offsetY = (height - overlayHeight) / 2
	}
	if offsetY > height-overlayHeight {
		offsetY = height - overlayHeight
	}
	if offsetY < 0 {
		offsetY = 0
	}

	return offsetX, offsetY
}
