package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/catime/pkg/commands/options"
	"tableflip.dev/catime/pkg/runner/months"
)

func addMonths(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var calendar string

	cmd := &cobra.Command{
		Use:   "months",
		Short: "show the timeline of months with cats",
		Example: `
catime months
catime months --calendar 2024-02
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			format, err := oo.Format()
			if err != nil {
				return err
			}
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()
			m := months.Months{
				Catalog:  e.feed,
				Calendar: calendar,
				Format:   format,
				Out:      cmd.OutOrStdout(),
			}
			return oo.HandleError(m.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&calendar, "calendar", "",
		`Print the calendar of one month, example: --calendar="2024-02".`)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
