package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/catime/pkg/commands/options"
	"tableflip.dev/catime/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	po := &options.PageOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list cats, newest first",
		Example: `
catime list
catime list --model flux --page 2
catime list --inspiration news --all -o json
catime list --date 2/14
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			format, err := oo.Format()
			if err != nil {
				return err
			}
			filter, err := fo.Filter()
			if err != nil {
				return oo.HandleError(err)
			}
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			size := po.PageSize
			if size <= 0 {
				size = e.cfg.PageSize
			}
			l := list.List{
				Catalog:  e.feed,
				Filter:   filter,
				Page:     po.Page,
				PageSize: size,
				All:      po.All,
				Format:   format,
				Out:      cmd.OutOrStdout(),
			}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddPageArgs(cmd, po)
	options.AddOutputArg(cmd, oo)
	registerFilterCompletions(cmd)

	topLevel.AddCommand(cmd)
}
