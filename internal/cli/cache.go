package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage downloaded images",
	}
	cmd.AddCommand(newCacheClearCmd(state))
	return cmd
}

func newCacheClearCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete images cached from URLs",
		Long: `Delete every image downloaded by extract or export from an https:// URL.

The saved palette is kept; use "last --clear" to remove it.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := state.images.Clear(); err != nil {
				return err
			}
			state.logger.Info("cleared image cache", "path", state.images.Dir())
			return nil
		},
	}
}
