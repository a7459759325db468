package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration after defaults, the config file, SWATCH_*
environment variables and flags have been applied. The output is a valid
config.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.TOML()
			if err != nil {
				return err
			}
			if a.cfg.File != "" {
				fmt.Fprintf(a.stdout, "# loaded from %s\n", a.cfg.File)
			}
			fmt.Fprint(a.stdout, string(data))
			return nil
		},
	}
}
