package months

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/gallery"
	"tableflip.dev/catime/pkg/printers"
)

// Catalog is the part of the feed Months reads.
type Catalog interface {
	WorkingSet(ctx context.Context) ([]catalog.Item, error)
}

// Months prints the timeline, or the calendar of a single month.
type Months struct {
	Catalog Catalog
	// Calendar is a "YYYY-MM" month to print as a calendar grid.
	Calendar string
	Format   printers.Format
	Out      io.Writer
}

// Year is the machine readable timeline entry.
type Year struct {
	Year   string  `json:"year" yaml:"year"`
	Months []Month `json:"months" yaml:"months"`
}

// Month counts the cats of one "YYYY-MM" group.
type Month struct {
	Month string `json:"month" yaml:"month"`
	Cats  int    `json:"cats" yaml:"cats"`
}

func (n *Months) Do(ctx context.Context) error {
	if n.Catalog == nil {
		return errors.New("can not list months, no catalog")
	}
	var month time.Time
	if n.Calendar != "" {
		var err error
		if month, err = time.Parse("2006-01", n.Calendar); err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", n.Calendar)
		}
	}

	items, err := n.Catalog.WorkingSet(ctx)
	if err != nil {
		return err
	}

	if n.Format != printers.FormatText {
		if n.Calendar != "" {
			return printers.Encode(n.Out, n.Format, dates(items, n.Calendar))
		}
		return printers.Encode(n.Out, n.Format, Timeline(items))
	}

	pp := printers.PrettyPrint{Out: n.Out}
	if n.Calendar != "" {
		pp.Calendar(month, items...)
		return nil
	}
	pp.Title("Timeline")
	pp.Months(items)
	return nil
}

// Timeline counts cats per month, years and months newest first.
func Timeline(items []catalog.Item) []Year {
	counts := gallery.MonthCounts(items)
	years := gallery.Timeline(items)
	out := make([]Year, 0, len(years))
	for _, y := range years {
		year := Year{Year: y.Year, Months: make([]Month, 0, len(y.Months))}
		for _, m := range y.Months {
			year.Months = append(year.Months, Month{Month: m, Cats: counts[m]})
		}
		out = append(out, year)
	}
	return out
}

// dates counts the cats of each day in month that has any.
func dates(items []catalog.Item, month string) map[string]int {
	out := make(map[string]int)
	for _, item := range items {
		if item.Group() == month {
			out[item.Date()]++
		}
	}
	return out
}
