package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/pixelpalette/internal/colour"
	"github.com/jmylchreest/pixelpalette/internal/export"
	"github.com/jmylchreest/pixelpalette/internal/plugin/executor"
	"github.com/jmylchreest/pixelpalette/internal/plugin/protocol"
	"github.com/jmylchreest/pixelpalette/internal/security"
	"github.com/jmylchreest/pixelpalette/internal/store"
)

var errNoSavedPalette = errors.New("no saved palette, run 'pixelpalette extract <image>' first")

type exportOptions struct {
	analysis analysisOptions
	output   string
	width    int
	height   int
	noLabels bool

	plugin     string
	pluginArgs map[string]string
	dryRun     bool
}

func newExportCmd(state *appState) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [image]",
		Short: "Export a palette as a PNG banner or through a plugin",
		Long: `Export a palette as a PNG banner or through an exporter plugin.

With an image argument the image is analysed first, exactly as extract
does. Without one, the last saved palette is exported.

The banner is a row of equal-width colour bands, each labelled with its hex
code. Exporter plugins are executables that answer --plugin-info; the files
they return are written below the --output directory.

Examples:
  # Banner from the last palette
  pixelpalette export

  # Analyse and export in one step
  pixelpalette export -c 6 -o sunset.png sunset.jpg

  # Hand the last palette to a plugin
  pixelpalette export --plugin ./pixelpalette-css --plugin-arg prefix=brand -o styles`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var imagePath string
			if len(args) == 1 {
				imagePath = args[0]
			}
			return runExport(cmd.Context(), state, opts, imagePath)
		},
	}

	opts.analysis.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "",
		fmt.Sprintf("output file for the banner (default %q) or directory for plugin files (default \".\")", export.DefaultFilename))
	cmd.Flags().IntVar(&opts.width, "width", export.DefaultWidth, "banner width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", export.DefaultHeight, "banner height in pixels")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit hex labels from the banner")
	cmd.Flags().StringVar(&opts.plugin, "plugin", "", "path to an exporter plugin")
	cmd.Flags().StringToStringVar(&opts.pluginArgs, "plugin-arg", nil, "key=value argument passed to the plugin (repeatable)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "ask the plugin for its files without writing them")

	return cmd
}

// runExport executes the export command.
func runExport(ctx context.Context, state *appState, opts exportOptions, imagePath string) error {
	palette, err := currentPalette(ctx, state, opts.analysis, imagePath)
	if err != nil {
		return err
	}

	if opts.plugin != "" {
		return exportWithPlugin(ctx, state, opts, palette)
	}

	path := opts.output
	if path == "" {
		path = export.DefaultFilename
	}
	bannerOpts := export.Options{
		Width:  opts.width,
		Height: opts.height,
		Labels: !opts.noLabels,
	}
	if err := export.SavePNG(path, palette, bannerOpts); err != nil {
		return fmt.Errorf("failed to export banner: %w", err)
	}

	state.logger.Info("exported banner", "path", path, "width", opts.width, "height", opts.height, "colours", palette.Len())
	fmt.Fprintln(state.stdout, path)
	return nil
}

// currentPalette analyses imagePath. Without an image it returns the palette
// already held in state, falling back to the saved one.
func currentPalette(ctx context.Context, state *appState, opts analysisOptions, imagePath string) (*colour.Palette, error) {
	if imagePath != "" {
		return analyse(ctx, state, opts, imagePath)
	}
	if state.palette != nil {
		return state.palette, nil
	}

	palette, err := state.store.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			state.logger.Warn("ignoring unreadable saved palette", "path", state.store.Path(), "error", err)
		}
		return nil, errNoSavedPalette
	}
	state.palette = palette
	state.logger.Debug("loaded saved palette", "path", state.store.Path(), "colours", palette.Len())
	return palette, nil
}

// exportWithPlugin runs an exporter plugin and writes the files it returns.
func exportWithPlugin(ctx context.Context, state *appState, opts exportOptions, palette *colour.Palette) error {
	outDir := opts.output
	if outDir == "" {
		outDir = "."
	}

	plug, err := executor.New(ctx, opts.plugin, state.logger)
	if err != nil {
		return fmt.Errorf("failed to load plugin: %w", err)
	}
	defer plug.Close()

	info := plug.Info()
	state.logger.Debug("running plugin", "name", info.Name, "version", info.Version, "protocol", plug.Type())

	args := make(map[string]any, len(opts.pluginArgs))
	for k, v := range opts.pluginArgs {
		args[k] = v
	}

	files, err := plug.Export(ctx, protocol.ConvertPalette(palette, args, opts.dryRun))
	if err != nil {
		return fmt.Errorf("plugin %s failed: %w", info.Name, err)
	}
	if len(files) == 0 {
		state.logger.Warn("plugin returned no files", "plugin", info.Name)
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(files)) {
		if err := security.ValidateFilePath(name, outDir); err != nil {
			return fmt.Errorf("plugin %s returned unsafe path %q: %w", info.Name, name, err)
		}
		path := filepath.Join(outDir, name)

		if opts.dryRun {
			state.logger.Info("would write file", "path", path, "bytes", len(files[name]))
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - output directory chosen by the user
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil { // #nosec G306 - exported palette files are not sensitive
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		state.logger.Info("wrote file", "plugin", info.Name, "path", path)
		fmt.Fprintln(state.stdout, path)
	}

	return nil
}
