package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/catime/pkg/commands/options"
	"tableflip.dev/catime/pkg/runner/cache"
)

func addCache(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "manage the offline response cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addCacheAction(cmd, cache.ActionList, "list the cached responses", `
catime cache list
catime cache list -o json
`)
	addCacheAction(cmd, cache.ActionPurge, "delete cache generations other than the current one", `
catime cache purge
`)
	addCacheAction(cmd, cache.ActionClear, "delete every cached response", `
catime cache clear
`)

	topLevel.AddCommand(cmd)
}

func addCacheAction(parent *cobra.Command, action cache.Action, short, example string) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     string(action),
		Short:   short,
		Example: example,
		Args:    cobra.NoArgs,
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
			c := cache.Cache{
				Cache:  e.cache,
				Action: action,
				Format: format,
				Out:    cmd.OutOrStdout(),
			}
			return oo.HandleError(c.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}
