package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/printers"
	"tableflip.dev/catime/pkg/store"
)

// Catalog is the part of the feed Info reads.
type Catalog interface {
	WorkingSet(ctx context.Context) ([]catalog.Item, error)
}

// Info prints where catime reads its configuration and a catalog summary.
type Info struct {
	Config  *store.Config
	Catalog Catalog
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("CATIME_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "CATIME_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "CATIME_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(out, "Cache path:", n.Config.CacheDir())
	if n.Config.LocalCatalog != "" {
		_, _ = fmt.Fprintln(out, "Catalog:", n.Config.LocalCatalog)
	} else {
		_, _ = fmt.Fprintln(out, "Catalog:", n.Config.Endpoints.Catalog)
	}
	_, _ = fmt.Fprintln(out, "")

	if n.Catalog == nil {
		return fmt.Errorf("failed to create the feed client")
	}
	items, err := n.Catalog.WorkingSet(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Summary(items)
	return nil
}
