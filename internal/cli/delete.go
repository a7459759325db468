package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/image"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <image>...",
		Aliases: []string{"rm"},
		Short:   "Remove stored palettes",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDelete(args)
		},
	}
}

func (a *app) runDelete(args []string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	removed := 0
	for _, arg := range args {
		key := arg
		if k, err := image.CanonicalPath(arg); err == nil && s.Has(k) {
			key = k
		}
		if s.Delete(key) {
			removed++
			a.printf("removed palette for %s\n", key)
		} else {
			a.printf("no palette for %s; nothing done\n", arg)
		}
	}

	if removed == 0 {
		return nil
	}
	if err := s.Save(); err != nil {
		return err
	}
	a.logger.Debug("saved palette store", "path", s.Path(), "removed", removed)
	return nil
}
