package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/catime/pkg/runner/ui"
	"tableflip.dev/catime/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the terminal gallery",
		Example: `
catime ui
catime ui --local ./catlist.json
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(true)
			if err != nil {
				return err
			}
			defer e.close()
			i := ui.UI{
				Config: e.cfg,
				Feed:   e.feed,
				Log:    e.log.Named("ui"),
			}
			if prefs, err := store.OpenPrefs(e.cfg.PrefsPath); err != nil {
				e.log.Warn("theme preference unavailable", zap.Error(err))
			} else {
				i.Prefs = prefs
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
