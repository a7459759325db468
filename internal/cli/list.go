package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// listImageWidth is where long image paths wrap.
const listImageWidth = 60

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List images with stored palettes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList()
		},
	}
}

func (a *app) runList() error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	if s.Len() == 0 {
		a.printf("no palettes stored in %s\n", s.Path())
		return nil
	}

	table := NewTable("IMAGE", "ALGORITHM", "PIXELS", "CREATED")
	table.SetColumnMaxWidth(0, listImageWidth)
	for _, img := range s.Images() {
		r, _ := s.Get(img)
		table.AddRow(img, r.Algorithm, strconv.Itoa(r.Pixels), r.Created.Local().Format(time.DateTime))
	}
	fmt.Fprint(a.stdout, table.Render())
	return nil
}
