package options

import (
	"github.com/spf13/cobra"
)

// PageOptions
type PageOptions struct {
	Page     int
	PageSize int
	All      bool
}

func AddPageArgs(cmd *cobra.Command, o *PageOptions) {
	cmd.Flags().IntVarP(&o.Page, "page", "p", 1,
		"Page of results to show, starting at 1.")
	cmd.Flags().IntVar(&o.PageSize, "page-size", 0,
		"Cats per page, defaults to the configured page_size.")
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Show every matching cat.")
}
