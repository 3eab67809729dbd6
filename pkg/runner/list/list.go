package list

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/gallery"
	"tableflip.dev/catime/pkg/printers"
)

// Catalog is the part of the feed List reads.
type Catalog interface {
	WorkingSet(ctx context.Context) ([]catalog.Item, error)
}

// List prints one page of the filtered working set, or all of it.
type List struct {
	Catalog  Catalog
	Filter   gallery.Filter
	Page     int
	PageSize int
	All      bool
	Format   printers.Format
	Out      io.Writer
}

// Result is the machine readable listing.
type Result struct {
	Filter gallery.Filter `json:"filter" yaml:"filter"`
	Total  int            `json:"total" yaml:"total"`
	Page   int            `json:"page,omitempty" yaml:"page,omitempty"`
	Pages  int            `json:"pages" yaml:"pages"`
	Cats   []catalog.Item `json:"cats" yaml:"cats"`
}

func (n *List) Do(ctx context.Context) error {
	if n.Catalog == nil {
		return errors.New("can not list, no catalog")
	}
	items, err := n.Catalog.WorkingSet(ctx)
	if err != nil {
		return err
	}

	res := n.page(gallery.Compute(items, n.Filter))

	if n.Format != printers.FormatText {
		return printers.Encode(n.Out, n.Format, res)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if len(items) == 0 {
		pp.Summary(items)
		return nil
	}
	title := "Cats"
	if !n.All && res.Pages > 1 {
		title = fmt.Sprintf("Cats, page %d of %d", res.Page, res.Pages)
	}
	pp.TitleWithCount(title, res.Total)
	pp.Cats(res.Cats...)
	return nil
}

func (n *List) page(filtered []catalog.Item) Result {
	size := n.PageSize
	if size <= 0 {
		size = gallery.DefaultPageSize
	}
	pages := (len(filtered) + size - 1) / size
	res := Result{Filter: n.Filter, Total: len(filtered), Pages: pages, Cats: filtered}
	if n.All {
		return res
	}

	page := n.Page
	if page < 1 {
		page = 1
	}
	res.Page = page
	if page > pages {
		res.Cats = []catalog.Item{}
		return res
	}
	start := (page - 1) * size
	end := min(start+size, len(filtered))
	res.Cats = filtered[start:end]
	return res
}
