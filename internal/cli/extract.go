package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
)

// outputFormats lists the formats accepted by extract --format.
var outputFormats = []string{"hex", "json", "toml", "preview"}

type extractOptions struct {
	format string
	output string
}

func newExtractCmd(a *app) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a palette from an image without storing it",
		Long: `Extract the 24-slot palette from one image and print it.

The image may be a local file, a directory (a random image is picked) or an
HTTP(S) URL. Nothing is written to the palette store.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF, AVIF

Examples:
  # Print slot names and hex colours
  swatch extract wallpaper.jpg

  # Show colour swatches in the terminal
  swatch extract --format preview wallpaper.png

  # Full details as JSON, written to a file
  swatch extract --format json --output palette.json wallpaper.jpg

  # Use the hue-sector algorithm
  swatch extract -a hue wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd.Context(), opts, args[0])
		},
	}

	addExtractFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "hex", fmt.Sprintf("output format %v", outputFormats))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (a *app) runExtract(ctx context.Context, opts *extractOptions, path string) error {
	if err := image.ValidateImagePath(path); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	imagePath, err := image.ResolveImagePath(path)
	if err != nil {
		return err
	}

	palette, _, err := a.extractImage(ctx, imagePath)
	if err != nil {
		return err
	}

	output, err := formatPalette(palette, opts.format)
	if err != nil {
		return err
	}

	if opts.output == "" {
		fmt.Fprint(a.stdout, output)
		return nil
	}
	if err := afero.WriteFile(a.fs, opts.output, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("wrote palette", "path", opts.output)
	return nil
}

// extractImage loads one image and runs the extractor over its sampled
// pixels. It returns the palette and the number of pixels sampled.
func (a *app) extractImage(ctx context.Context, path string) (*colour.Palette, int, error) {
	log := a.logger.With("image", path)
	log.Debug("loading image")

	img, err := a.newLoader().Load(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	log.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	extractor, err := a.newExtractor()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create extractor: %w", err)
	}

	sampled := 0
	pixels := image.Pixels(img, a.cfg.Extract.SampleBudget)
	counted := func(yield func(colour.RGB) bool) {
		for px := range pixels {
			sampled++
			if !yield(px) {
				return
			}
		}
	}

	palette := extractor.Extract(counted)
	log.Debug("palette extracted", "sampled", sampled, "assigned", palette.Pixels())
	return palette, sampled, nil
}

// formatPalette renders a palette in one of outputFormats.
func formatPalette(palette *colour.Palette, format string) (string, error) {
	switch format {
	case "hex":
		var b strings.Builder
		for slot, e := range palette.All() {
			fmt.Fprintf(&b, "%-15s %s\n", slot, e.Hex())
		}
		return b.String(), nil
	case "preview":
		var b strings.Builder
		for slot, e := range palette.All() {
			fmt.Fprintf(&b, "%s %-15s %-10s\n", colour.FormatColourWithPreview(e.RGB, 8), slot, e.Origin)
		}
		return b.String(), nil
	case "json":
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "toml":
		data, err := toml.Marshal(map[string]any{
			"pixels":  palette.Pixels(),
			"colours": palette.Hex(),
		})
		if err != nil {
			return "", fmt.Errorf("failed to convert to TOML: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(outputFormats, ", "))
	}
}
