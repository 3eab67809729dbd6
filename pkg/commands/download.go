package commands

import (
	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"tableflip.dev/catime/pkg/catalog"
	"tableflip.dev/catime/pkg/runner/download"
)

func addDownload(topLevel *cobra.Command) {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <number>",
		Short: "save the image of a cat",
		Long: `Save the image of a cat to the download directory. When the image can not
be fetched it is opened in the browser instead.`,
		Example: `
catime download 42
catime download 42 --dir ~/Pictures/cats
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			number, err := catalog.ParseNumber(args[0])
			if err != nil {
				return err
			}
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.close()

			if dir == "" {
				dir = e.cfg.DownloadDir
			}
			d := download.Download{
				Feed:    e.feed,
				Number:  number,
				Dir:     dir,
				OpenURL: browser.OpenURL,
				Out:     cmd.OutOrStdout(),
				Log:     e.log.Named("download"),
			}
			return d.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "",
		"Directory to save into, defaults to the configured download_dir.")

	topLevel.AddCommand(cmd)
}
