package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/store"
)

type generateOptions struct {
	force  bool
	random bool
	apply  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <image|dir|url>...",
		Short: "Generate and store palettes for images",
		Long: `Generate palettes for one or more images and save them to the palette store.

Directories expand to every supported image inside them, or to one random
image with --random. Images that already have a stored palette are skipped
unless --force is given. A failure on one image does not stop the others;
all failures are reported at the end.

Examples:
  # Generate palettes for a wallpaper directory
  swatch generate ~/Pictures/walls

  # Regenerate one palette and apply it to the terminal
  swatch generate --force --apply wallpaper.jpg

  # Pick a random wallpaper and apply it
  swatch generate --random --apply ~/Pictures/walls`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.Context(), opts, args)
		},
	}

	addExtractFlags(cmd)
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "regenerate palettes that already exist")
	cmd.Flags().BoolVarP(&opts.random, "random", "r", false, "pick one random image from each directory")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "apply the palette of the last image to the terminal")
	return cmd
}

// generateResult summarises a batch.
type generateResult struct {
	generated []string
	skipped   []string
	errs      []error
}

func (a *app) runGenerate(ctx context.Context, opts *generateOptions, args []string) error {
	images, expandErrs := expandImages(args, opts.random)

	s, err := a.openStore()
	if err != nil {
		return err
	}

	res := generateResult{errs: expandErrs}
	for _, path := range images {
		key, err := image.CanonicalPath(path)
		if err != nil {
			res.errs = append(res.errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if !opts.force && s.Has(key) {
			a.logger.Debug("palette exists, skipping", "image", key)
			res.skipped = append(res.skipped, key)
			continue
		}

		start := time.Now()
		palette, sampled, err := a.extractImage(ctx, path)
		if err != nil {
			res.errs = append(res.errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		s.Put(key, store.NewRecord(palette, a.cfg.ExtractorConfig().Algorithm, sampled))
		res.generated = append(res.generated, key)
		a.logger.Info("generated palette", "image", key, "pixels", sampled, "elapsed", time.Since(start))
	}

	if len(res.generated) > 0 {
		if err := s.Save(); err != nil {
			return err
		}
		a.logger.Debug("saved palette store", "path", s.Path())
	}

	a.reportGenerate(res, opts)

	if opts.apply {
		target := lastImage(res)
		if target == "" {
			res.errs = append(res.errs, errors.New("--apply: no palette available to apply"))
		} else {
			if len(images) > 1 {
				a.logger.Warn("multiple images given with --apply, using the last one", "image", target)
			}
			if err := a.applyRecord(s, target, false); err != nil {
				res.errs = append(res.errs, err)
			}
		}
	}

	return errors.Join(res.errs...)
}

// expandImages turns arguments into image paths. Directories expand to all
// of their images, or one random image when random is set.
func expandImages(args []string, random bool) ([]string, []error) {
	var (
		images []string
		errs   []error
	)
	for _, arg := range args {
		var (
			paths []string
			err   error
		)
		if random {
			var p string
			p, err = image.ResolveImagePath(arg)
			paths = []string{p}
		} else {
			paths, err = image.ExpandPath(arg)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", arg, err))
			continue
		}
		images = append(images, paths...)
	}
	return images, errs
}

func lastImage(res generateResult) string {
	if n := len(res.generated); n > 0 {
		return res.generated[n-1]
	}
	if n := len(res.skipped); n > 0 {
		return res.skipped[n-1]
	}
	return ""
}

func (a *app) reportGenerate(res generateResult, opts *generateOptions) {
	for _, key := range res.skipped {
		a.printf("palette for %s already exists (use --force to regenerate)\n", key)
	}

	switch {
	case len(res.errs) == 0 && len(res.generated) > 0:
		a.printf("generated %d palette(s), saved to %s\n", len(res.generated), a.cfg.Paths.Palettes)
	case len(res.errs) > 0 && len(res.generated) == 0:
		fmt.Fprintln(a.stderr, "not a single palette was generated:")
	case len(res.errs) > 0:
		fmt.Fprintf(a.stderr, "generated %d palette(s), but there were errors:\n", len(res.generated))
	}
	for _, err := range res.errs {
		fmt.Fprintf(a.stderr, "\t%v\n", err)
	}

	if len(res.generated) == 0 && len(res.skipped) == 1 && !opts.force && !opts.apply {
		a.printf("did you mean --apply or --force?\n")
	}
}
