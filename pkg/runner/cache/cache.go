package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/catime/pkg/printers"
	"tableflip.dev/catime/pkg/store"
)

// Action selects what Cache does with the response cache.
type Action string

const (
	// ActionList prints the stored responses.
	ActionList Action = "list"
	// ActionPurge deletes every generation but the current one.
	ActionPurge Action = "purge"
	// ActionClear erases the current generation.
	ActionClear Action = "clear"
)

// Cache manages the offline response cache.
type Cache struct {
	Cache  *store.Cache
	Action Action
	Format printers.Format
	Out    io.Writer
}

func (n *Cache) Do(ctx context.Context) error {
	if n.Cache == nil {
		return errors.New("can not manage cache, no cache")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	switch n.Action {
	case ActionPurge:
		purged, err := n.Cache.Activate()
		if err != nil {
			return err
		}
		if n.Format != printers.FormatText {
			return printers.Encode(out, n.Format, map[string]interface{}{
				"generation": n.Cache.Generation(),
				"purged":     purged,
			})
		}
		if len(purged) == 0 {
			_, _ = fmt.Fprintln(out, "Nothing to purge, keeping", n.Cache.Generation())
			return nil
		}
		for _, name := range purged {
			_, _ = fmt.Fprintln(out, "Purged", name)
		}
		return nil

	case ActionClear:
		if err := n.Cache.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		_, _ = fmt.Fprintln(out, "Cleared", n.Cache.Generation())
		return nil

	case "", ActionList:
		all := n.Cache.List(ctx)
		if n.Format != printers.FormatText {
			return printers.Encode(out, n.Format, all)
		}
		if len(all) == 0 {
			_, _ = color.New(color.Faint, color.Italic).Fprintln(out, " cache is empty")
			return nil
		}
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("STORED", "STATUS", "TYPE", "URL")
		for _, r := range all {
			tbl.AddRow(r.Stored.Format("2006-01-02 15:04"), r.Status, r.ContentType, r.URL)
		}
		_, _ = fmt.Fprintln(out, tbl)
		return nil
	}
	return fmt.Errorf("unknown cache action %q", n.Action)
}
