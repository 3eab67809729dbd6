package character

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"tableflip.dev/catime/pkg/catalog"
)

var seasonLabels = []struct {
	season catalog.Season
	label  string
}{
	{catalog.Spring, "🌸 Spring"},
	{catalog.Summer, "☀️ Summer"},
	{catalog.Autumn, "🍂 Autumn"},
	{catalog.Winter, "❄️ Winter"},
}

const none = "—"

// Markdown lays the page out as a markdown document.
func (p *Page) Markdown() string {
	var b strings.Builder
	prof := p.Profile

	fmt.Fprintf(&b, "# %s\n\n", prof.DisplayName())

	b.WriteString("## Personality\n\n")
	if len(prof.Personality.Traits) > 0 {
		b.WriteString(tags(prof.Personality.Traits) + "\n\n")
	}
	if len(prof.Personality.Quirks) > 0 {
		b.WriteString(strings.Join(prof.Personality.Quirks, " · ") + "\n\n")
	}

	b.WriteString("## Distinctive Features\n\n")
	if features := prof.Appearance.DistinctiveFeatures; len(features) > 0 {
		for _, f := range features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	} else {
		b.WriteString(none + "\n\n")
	}

	b.WriteString("## Story\n\n")
	if prof.StoryContext != "" {
		b.WriteString(prof.StoryContext + "\n\n")
	} else {
		b.WriteString(none + "\n\n")
	}

	b.WriteString("## Preferred Settings\n\n")
	if len(prof.PreferredSettings) > 0 {
		b.WriteString(tags(prof.PreferredSettings) + "\n\n")
	} else {
		b.WriteString(none + "\n\n")
	}

	b.WriteString("## Seasonal Variants\n\n")
	for _, s := range seasonLabels {
		if text := prof.SeasonalVariants[s.season]; text != "" {
			fmt.Fprintf(&b, "- **%s** %s\n", s.label, text)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Gallery (%d)\n\n", len(p.Gallery))
	if len(p.Gallery) == 0 {
		b.WriteString("No cats featuring this character yet.\n")
	}
	for _, item := range p.Gallery {
		if item.Title != "" {
			fmt.Fprintf(&b, "- #%d %s\n", item.Number, item.Title)
		} else {
			fmt.Fprintf(&b, "- #%d\n", item.Number)
		}
	}
	return b.String()
}

// Render renders the page for a terminal of the given width. style is a
// glamour standard style name ("dark", "light", "notty").
func (p *Page) Render(width int, style string) (string, error) {
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("character: renderer: %w", err)
	}
	out, err := renderer.Render(p.Markdown())
	if err != nil {
		return "", fmt.Errorf("character: render: %w", err)
	}
	return out, nil
}

func tags(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = "`" + strings.ReplaceAll(v, "`", "'") + "`"
	}
	return strings.Join(out, " ")
}
