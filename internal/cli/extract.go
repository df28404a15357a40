package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/pixelpalette/internal/colour"
	imgutil "github.com/jmylchreest/pixelpalette/internal/image"
)

// Output formats understood by extract and last.
const (
	formatHex   = "hex"
	formatRGB   = "rgb"
	formatJSON  = "json"
	formatTable = "table"
)

// previewWidth is the width of a terminal swatch in cells.
const previewWidth = 9

// analysisOptions configure how an image is turned into a palette.
type analysisOptions struct {
	colours      int
	iterations   int
	stride       int
	maxDimension int
	seed         uint64
	algorithm    string
	noSave       bool
}

// register adds the analysis flags to fs.
func (o *analysisOptions) register(fs *pflag.FlagSet) {
	fs.IntVarP(&o.colours, "colours", "c", colour.DefaultK, "number of colours to extract (1-256)")
	fs.IntVarP(&o.iterations, "iterations", "i", colour.DefaultIterations, "k-means iterations")
	fs.IntVar(&o.stride, "stride", colour.DefaultStride, "sampling stride in buffer bytes (multiple of 4)")
	fs.IntVar(&o.maxDimension, "max-dimension", imgutil.MaxDimension, "longest side the image is scaled to before sampling")
	fs.Uint64Var(&o.seed, "seed", 0, "seed for centroid selection (0 uses system entropy)")
	fs.StringVarP(&o.algorithm, "algorithm", "a", string(colour.AlgorithmKMeans),
		fmt.Sprintf("extraction algorithm (%s)", joinAlgorithms()))
	fs.BoolVar(&o.noSave, "no-save", false, "do not remember the palette for later export")
}

func (o *analysisOptions) config() colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Algorithm:  colour.Algorithm(o.algorithm),
		ColorCount: o.colours,
		Iterations: o.iterations,
		Stride:     o.stride,
		Seed:       o.seed,
	}
}

func joinAlgorithms() string {
	names := make([]string, 0, len(colour.ValidAlgorithms()))
	for _, a := range colour.ValidAlgorithms() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}

type extractOptions struct {
	analysis analysisOptions
	format   string
	output   string
	preview  bool
}

func newExtractCmd(state *appState) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a colour palette from an image",
		Long: `Extract a colour palette from an image.

The image is scaled so its longest side is at most --max-dimension pixels,
every --stride'th byte offset of its RGBA buffer is sampled (pixels with
alpha below 16 are skipped), and the samples are clustered into --colours
colours. Colours are printed most populous first.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF, optionally xz
compressed, or an https:// URL.

Examples:
  # Extract 5 colours (default) from an image
  pixelpalette extract wallpaper.jpg

  # Extract 8 colours reproducibly
  pixelpalette extract -c 8 --seed 42 wallpaper.png

  # Output as JSON with cluster populations
  pixelpalette extract --format json wallpaper.jpg

  # Use the converging k-means implementation
  pixelpalette extract -a lloyd wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("preview") {
				opts.preview = opts.output == "" && state.isTerminal()
			}
			return runExtract(cmd.Context(), state, opts, args[0])
		},
	}

	opts.analysis.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatHex, "output format (hex, rgb, json, table)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches (default: on when stdout is a terminal)")

	return cmd
}

// runExtract executes the extract command.
func runExtract(ctx context.Context, state *appState, opts extractOptions, imagePath string) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	palette, err := analyse(ctx, state, opts.analysis, imagePath)
	if err != nil {
		return err
	}

	output, err := formatPalette(palette, opts.format, opts.preview)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.output != "" {
		state.logger.Debug("writing palette", "path", opts.output)
		if err := os.WriteFile(opts.output, []byte(output), 0o644); err != nil { // #nosec G306 - palette text is not sensitive
			return fmt.Errorf("failed to write output file: %w", err)
		}
		state.logger.Info("wrote palette", "path", opts.output)
	} else {
		fmt.Fprint(state.stdout, output)
	}

	return nil
}

// analyse loads, downsizes and clusters an image, then remembers the result.
func analyse(ctx context.Context, state *appState, opts analysisOptions, imagePath string) (*colour.Palette, error) {
	if err := imgutil.ValidateImagePath(imagePath); err != nil {
		return nil, fmt.Errorf("invalid image path: %w", err)
	}
	if opts.maxDimension < 1 {
		return nil, fmt.Errorf("%w: max dimension must be at least 1, got %d", colour.ErrInvalidArgument, opts.maxDimension)
	}

	config := opts.config()
	extractor, err := colour.NewExtractor(config)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	state.logger.Debug("loading image", "path", imagePath)
	img, err := state.loader.Load(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	bounds := img.Bounds()
	fitted := imgutil.Downscale(img, opts.maxDimension)
	state.logger.Debug("image loaded",
		"width", bounds.Dx(), "height", bounds.Dy(),
		"fitted_width", fitted.Bounds().Dx(), "fitted_height", fitted.Bounds().Dy())

	state.logger.Debug("extracting colours",
		"algorithm", config.Algorithm, "colours", config.ColorCount,
		"iterations", config.Iterations, "stride", config.Stride)

	palette, err := extractor.Extract(fitted, config.ColorCount)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	state.logger.Debug("extracted palette", "colours", palette.Len())

	state.remember(palette, !opts.noSave)
	return palette, nil
}

func validateFormat(format string) error {
	switch format {
	case formatHex, formatRGB, formatJSON, formatTable:
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: hex, rgb, json, table)", format)
	}
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	var sb strings.Builder

	switch format {
	case formatHex:
		for _, c := range palette.Colours {
			if showPreview {
				sb.WriteString(colour.FormatColourWithPreview(c, previewWidth) + "\n")
				continue
			}
			sb.WriteString(c.Hex() + "\n")
		}
	case formatRGB:
		for _, c := range palette.Colours {
			if showPreview {
				sb.WriteString(colour.ColourPreview(c, previewWidth) + " ")
			}
			sb.WriteString(c.String() + "\n")
		}
	case formatJSON:
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case formatTable:
		return paletteTable(palette, showPreview).Render(), nil
	default:
		return "", validateFormat(format)
	}

	if showPreview {
		sb.WriteString(palette.Swatches(previewWidth) + "\n")
	}
	return sb.String(), nil
}
