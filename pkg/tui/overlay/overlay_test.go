package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeCenters(t *testing.T) {
	bg := strings.Repeat("..........\n", 4) + ".........."
	out := Compose(bg, 10, 5, "ab\ncd", Centered)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "..........", lines[0])
	assert.Equal(t, "....ab....", lines[1])
	assert.Equal(t, "....cd....", lines[2])
	assert.Equal(t, "..........", lines[3])
}

func TestComposeTopLeftMargins(t *testing.T) {
	out := Compose("", 6, 3, "X", Placement{MarginX: 2, MarginY: 1})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "      ", lines[0])
	assert.Equal(t, "  X   ", lines[1])
}

func TestComposeBottomRight(t *testing.T) {
	out := Compose("", 5, 2, "Z", Placement{Horizontal: lipgloss.Right, Vertical: lipgloss.Bottom})
	lines := strings.Split(out, "\n")
	assert.Equal(t, "    Z", lines[1])
}

func TestComposeClampsOversizedForeground(t *testing.T) {
	out := Compose("", 3, 1, "abcdef\nline2", Centered)
	assert.Equal(t, "abc", out)
}

func TestComposeEmptyForeground(t *testing.T) {
	out := Compose("hi", 4, 2, "", Centered)
	assert.Equal(t, "hi  \n    ", out)
}

func TestSliceWidthWideRunes(t *testing.T) {
	assert.Equal(t, "貓", sliceWidth("A貓B", 1, 3))
	assert.Equal(t, " B", sliceWidth("貓B", 1, 3))
	assert.Equal(t, "", sliceWidth("abc", 2, 2))
}

func TestStripped(t *testing.T) {
	assert.Equal(t, "red", stripped("\x1b[31mred\x1b[0m"))
}
