// Package cli provides the command-line interface for pixelpalette.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/pixelpalette/internal/colour"
	imgutil "github.com/jmylchreest/pixelpalette/internal/image"
	"github.com/jmylchreest/pixelpalette/internal/store"
	"github.com/jmylchreest/pixelpalette/internal/util/imagecache"
	"github.com/jmylchreest/pixelpalette/internal/version"
)

// imageCacheDir is the state subdirectory holding downloaded images.
const imageCacheDir = "images"

// appState is shared by every command of one invocation.
type appState struct {
	logger hclog.Logger
	store  *store.Store
	loader imgutil.Loader
	images *imagecache.Cache

	// palette is the most recent analysis result or the loaded saved one.
	palette *colour.Palette

	stdout io.Writer
	stderr io.Writer

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal func() bool
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	verbose  bool
	quiet    bool
	stateDir string
}

func newAppState(stdout, stderr io.Writer) *appState {
	return &appState{
		logger: hclog.NewNullLogger(),
		stdout: stdout,
		stderr: stderr,
		isTerminal: func() bool {
			f, ok := stdout.(*os.File)
			return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
		},
	}
}

// setup builds the logger and store from the persistent flags.
func (s *appState) setup(opts rootOptions) error {
	level := hclog.Info
	switch {
	case opts.quiet:
		level = hclog.Error
	case opts.verbose:
		level = hclog.Debug
	}
	s.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "pixelpalette",
		Level:  level,
		Output: s.stderr,
	})

	dir := opts.stateDir
	if dir == "" {
		var err error
		if dir, err = store.DefaultDir(); err != nil {
			return fmt.Errorf("failed to resolve state directory: %w", err)
		}
	}
	s.store = store.New(dir)
	loader := imgutil.NewSmartLoader().WithCache(filepath.Join(dir, imageCacheDir))
	s.loader = loader
	s.images = loader.Cache()
	s.logger.Debug("state directory", "path", dir)

	return nil
}

// remember records p as the current palette and, unless skipped, persists it.
// Persistence failures are logged and do not fail the command.
func (s *appState) remember(p *colour.Palette, save bool) {
	s.palette = p
	if !save {
		return
	}
	if err := s.store.Save(p); err != nil {
		s.logger.Warn("failed to save palette", "error", err)
		return
	}
	s.logger.Debug("saved palette", "path", s.store.Path(), "colours", p.Len())
}

// NewRootCmd builds the pixelpalette command tree writing to stdout and stderr.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newAppState(os.Stdout, os.Stderr))
}

func newRootCmd(state *appState) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "pixelpalette",
		Short: "Extract colour palettes from images",
		Long: `pixelpalette extracts a small, ranked palette of representative colours from
an image using k-means clustering over sampled pixels.

Palettes can be printed as hex, RGB or JSON, rendered to a PNG banner, or
handed to exporter plugins. The last palette is kept so it can be exported
again without re-analysing the image.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return state.setup(opts)
		},
	}
	cmd.SetOut(state.stdout)
	cmd.SetErr(state.stderr)

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	cmd.PersistentFlags().StringVar(&opts.stateDir, "state-dir", "",
		fmt.Sprintf("directory for the saved palette (default $%s or the user cache dir)", store.EnvStateDir))

	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.AddCommand(newVersionCmd(state))
	cmd.AddCommand(newExtractCmd(state))
	cmd.AddCommand(newExportCmd(state))
	cmd.AddCommand(newLastCmd(state))
	cmd.AddCommand(newPluginCmd(state))
	cmd.AddCommand(newCacheCmd(state))

	return cmd
}

func newVersionCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(state.stdout, version.String())
		},
	}
}
