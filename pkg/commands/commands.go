package commands

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {
	var local string

	cmd := &cobra.Command{
		Use:   "catime",
		Short: base.Wrap80("An hourly cat gallery on the command line."),
		Long: base.Wrap80("catime browses the Catime feed of AI generated cats: a new cat every hour. " +
			"Run 'catime ui' for the terminal gallery, or list, get and download cats directly."),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&local, "local", "",
		"Read the catalog from a local catlist.json instead of the feed.")
	_ = viper.BindPFlag("local_catalog", cmd.PersistentFlags().Lookup("local"))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addGet(topLevel)
	addInfo(topLevel)
	addMonths(topLevel)
	addCharacter(topLevel)
	addDownload(topLevel)
	addCache(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}
