package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/colour"
)

func newSlotsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Print the anchor table",
		Long: `Print the 24 palette slots with their class, anchor hue and the default
colour used when an image has nothing to offer for the slot.

The table reflects the [anchors] section of the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSlots()
		},
	}
}

func (a *app) runSlots() error {
	t, err := a.cfg.Table()
	if err != nil {
		return err
	}

	preview := a.colourOutput()
	headers := []string{"SLOT", "CLASS", "HUE", "LIGHTNESS", "DEFAULT"}
	if preview {
		headers = append(headers, "PREVIEW")
	}
	table := NewTable(headers...)
	for _, slot := range t.Slots() {
		anchor := t.Anchor(slot)
		hue := "-"
		if anchor.Class != colour.ClassShade {
			hue = strconv.FormatFloat(anchor.Hue, 'f', 1, 64)
		}
		rgb := anchor.Default.RGB()
		row := []string{
			slot.String(),
			anchor.Class.String(),
			hue,
			strconv.FormatFloat(anchor.Default.L, 'f', 3, 64),
			rgb.Hex(),
		}
		if preview {
			row = append(row, colour.ColourPreview(rgb, 8))
		}
		table.AddRow(row...)
	}
	fmt.Fprint(a.stdout, table.Render())
	return nil
}
