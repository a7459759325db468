package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/store"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <image>",
		Short: "Show the stored palette for an image",
		Long: `Show the palette stored for an image as a table of slots.

Colour swatches are included when stdout is a terminal. Set NO_COLOR to
disable them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(args[0])
		},
	}
}

func (a *app) runShow(path string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	key, r, err := lookupRecord(s, path)
	if err != nil {
		return err
	}
	colours, err := r.Colours()
	if err != nil {
		return fmt.Errorf("stored palette for %s is corrupt: %w", key, err)
	}

	fmt.Fprintf(a.stdout, "image:     %s\n", key)
	if !image.IsURL(key) {
		if w, h, err := image.GetImageDimensions(key); err == nil {
			fmt.Fprintf(a.stdout, "size:      %dx%d\n", w, h)
		} else {
			a.logger.Debug("image not readable", "image", key, "error", err)
		}
	}
	fmt.Fprintf(a.stdout, "algorithm: %s\n", r.Algorithm)
	fmt.Fprintf(a.stdout, "pixels:    %d\n", r.Pixels)
	fmt.Fprintf(a.stdout, "created:   %s\n\n", r.Created.Local().Format(time.DateTime))

	preview := a.colourOutput()
	headers := []string{"SLOT", "CLASS", "HEX"}
	if preview {
		headers = append(headers, "PREVIEW")
	}
	table := NewTable(headers...)
	for _, slot := range colour.AllSlots() {
		rgb, ok := colours[slot]
		if !ok {
			table.AddRow(slot.String(), slot.Class().String(), "-")
			continue
		}
		row := []string{slot.String(), slot.Class().String(), rgb.Hex()}
		if preview {
			row = append(row, colour.ColourPreviewWithText(rgb, slot.Class().String(), 8))
		}
		table.AddRow(row...)
	}
	fmt.Fprint(a.stdout, table.Render())
	return nil
}

// lookupRecord finds the stored palette for path, trying its canonical
// form first and then path as given.
func lookupRecord(s *store.Store, path string) (string, store.Record, error) {
	if key, err := image.CanonicalPath(path); err == nil {
		if r, ok := s.Get(key); ok {
			return key, r, nil
		}
	}
	if r, ok := s.Get(path); ok {
		return path, r, nil
	}
	return "", store.Record{}, fmt.Errorf("no palette for %s (run: swatch generate %s)", path, path)
}

// colourOutput reports whether stdout should receive colour swatches.
func (a *app) colourOutput() bool {
	f, ok := a.stdout.(*os.File)
	return ok && colour.SupportsANSIColours(f)
}
