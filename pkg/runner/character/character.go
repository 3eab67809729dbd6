package character

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/character"
	"tableflip.dev/catime/pkg/printers"
)

// Character prints a character profile and the cats it appears in.
type Character struct {
	Feed character.Fetcher
	ID   string
	// Width wraps the rendered page; zero means 80.
	Width int
	// Style is a glamour style name. "notty" prints plain markdown.
	Style  string
	Format printers.Format
	Out    io.Writer
	Log    *zap.Logger
}

func (n *Character) Do(ctx context.Context) error {
	if n.Feed == nil {
		return errors.New("can not load character, no feed")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	page, err := character.Load(ctx, n.Feed, n.ID, n.Log)
	if err != nil {
		return err
	}

	if n.Format != printers.FormatText {
		return printers.Encode(out, n.Format, page)
	}
	if n.Style == "notty" {
		_, err = fmt.Fprint(out, page.Markdown())
		return err
	}
	width := n.Width
	if width <= 0 {
		width = 80
	}
	text, err := page.Render(width, n.Style)
	if err != nil {
		if n.Log != nil {
			n.Log.Warn("rendering character page failed", zap.Error(err))
		}
		text = page.Markdown()
	}
	_, err = fmt.Fprint(out, text)
	return err
}
