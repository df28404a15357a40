package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type lastOptions struct {
	format  string
	preview bool
	clear   bool
}

func newLastCmd(state *appState) *cobra.Command {
	var opts lastOptions

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show or clear the saved palette",
		Long: `Show the palette saved by the last extract or export, or remove it with --clear.

Examples:
  pixelpalette last
  pixelpalette last --format json
  pixelpalette last --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("preview") {
				opts.preview = state.isTerminal()
			}
			return runLast(cmd.Context(), state, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatHex, "output format (hex, rgb, json, table)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches (default: on when stdout is a terminal)")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "delete the saved palette")

	return cmd
}

// runLast executes the last command.
func runLast(ctx context.Context, state *appState, opts lastOptions) error {
	if opts.clear {
		if err := state.store.Clear(); err != nil {
			return fmt.Errorf("failed to clear saved palette: %w", err)
		}
		state.palette = nil
		state.logger.Info("cleared saved palette", "path", state.store.Path())
		return nil
	}

	if err := validateFormat(opts.format); err != nil {
		return err
	}

	palette, err := currentPalette(ctx, state, analysisOptions{}, "")
	if err != nil {
		return err
	}

	output, err := formatPalette(palette, opts.format, opts.preview)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(state.stdout, output)
	return nil
}
