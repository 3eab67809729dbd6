// Package options defines shared flag helpers for CLI commands.
package options

import (
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/catime/pkg/gallery"
)

// FilterOptions captures the gallery filter flags.
type FilterOptions struct {
	Model       string
	Character   string
	Inspiration string
	Date        string
	Query       string
}

// AddFilterArgs wires the filter flags on the provided command.
func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVar(&o.Model, "model", "",
		"Only cats drawn by this model.")
	cmd.Flags().StringVar(&o.Character, "character", "",
		"Only cats featuring this character, by name.")
	cmd.Flags().StringVar(&o.Inspiration, "inspiration", "",
		base.Wrap80(`Only original or news inspired cats, example: --inspiration=news. One of "all", "original" or "news".`))
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Only cats from one day or month, example: --date="2024-02-28", --date="2024-02" or --date="2/28".`)
	cmd.Flags().StringVarP(&o.Query, "query", "q", "",
		"Search cat numbers and titles.")
}

// Filter builds the gallery filter from the flags.
func (o *FilterOptions) Filter() (gallery.Filter, error) {
	insp, err := gallery.ParseInspiration(o.Inspiration)
	if err != nil {
		return gallery.Filter{}, err
	}
	f := gallery.Filter{
		Model:       strings.TrimSpace(o.Model),
		Character:   strings.TrimSpace(o.Character),
		Inspiration: insp,
		Query:       o.Query,
	}
	if o.Date != "" {
		if f.Date, err = ParseDate(o.Date); err != nil {
			return gallery.Filter{}, err
		}
	}
	return f, nil
}
