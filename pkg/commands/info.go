package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/catime/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the catalog and where catime keeps its cache.",
		Example: `
catime info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.close()
			s := info.Info{
				Config:  e.cfg,
				Catalog: e.feed,
				Out:     cmd.OutOrStdout(),
			}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
