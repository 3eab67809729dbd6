package commands

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/catime/pkg/commands/options"
	"tableflip.dev/catime/pkg/runner/character"
	"tableflip.dev/catime/pkg/tui/theme"
)

func addCharacter(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var (
		style string
		width int
	)

	cmd := &cobra.Command{
		Use:   "character <id>",
		Short: "show a character profile and the cats it appears in",
		Example: `
catime character mochi
catime character mochi --style light --width 100
catime character mochi -o json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if style == "" {
				style = "notty"
				if isatty.IsTerminal(os.Stdout.Fd()) {
					style = theme.Detect()
				}
			}
			c := character.Character{
				Feed:   e.feed,
				ID:     args[0],
				Width:  width,
				Style:  style,
				Format: format,
				Out:    cmd.OutOrStdout(),
				Log:    e.log.Named("character"),
			}
			return oo.HandleError(c.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&style, "style", "",
		`Rendering style. One of "dark", "light" or "notty"; detected from the terminal by default.`)
	cmd.Flags().IntVar(&width, "width", 80,
		"Wrap the profile at this width.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
