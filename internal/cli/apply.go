package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/sequences"
	"github.com/jmylchreest/swatch/internal/store"
)

func newApplyCmd(a *app) *cobra.Command {
	var toStdout bool
	cmd := &cobra.Command{
		Use:   "apply <image>",
		Short: "Write terminal colour sequences for a stored palette",
		Long: `Render the stored palette of an image as terminal escape sequences.

The sequences are saved to the sequences file so new shells can replay them,
for example from a shell rc file:

  cat ~/.cache/swatch/sequences

With --stdout they are also printed, which recolours the current terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			key, _, err := lookupRecord(s, args[0])
			if err != nil {
				return err
			}
			return a.applyRecord(s, key, toStdout)
		},
	}
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "also print the sequences to stdout")
	return cmd
}

// applyRecord renders the palette stored under key and writes the sequences
// file. With toStdout the sequences are printed as well.
func (a *app) applyRecord(s *store.Store, key string, toStdout bool) error {
	r, ok := s.Get(key)
	if !ok {
		return fmt.Errorf("no palette for %s", key)
	}
	colours, err := r.Colours()
	if err != nil {
		return fmt.Errorf("stored palette for %s is corrupt: %w", key, err)
	}

	seq, err := sequences.Render(colours, sequences.DefaultMapping())
	if err != nil {
		return fmt.Errorf("failed to render sequences for %s: %w", key, err)
	}
	if err := sequences.Write(a.fs, a.cfg.Paths.Sequences, seq); err != nil {
		return err
	}
	a.logger.Info("wrote sequences", "image", key, "path", a.cfg.Paths.Sequences)

	if toStdout {
		fmt.Fprint(a.stdout, seq)
	}
	return nil
}
