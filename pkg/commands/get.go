package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/commands/options"
	"tableflip.dev/catime/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "get <number>",
		Short: "show one cat and its prompt, story and idea",
		Example: `
catime get 42
catime get "#42" -o yaml
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			format, err := oo.Format()
			if err != nil {
				return err
			}
			number, err := catalog.ParseNumber(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			g := get.Get{
				Feed:   e.feed,
				Number: number,
				Format: format,
				Out:    cmd.OutOrStdout(),
			}
			return oo.HandleError(g.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
