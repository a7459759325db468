// Package cli provides the command-line interface for swatch.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/config"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/store"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
	"github.com/jmylchreest/swatch/internal/version"
)

// flagKeys maps config keys to the flag names that can override them.
var flagKeys = map[string]string{
	"extract.algorithm":     "algorithm",
	"extract.workers":       "workers",
	"extract.sample_budget": "sample-budget",
}

// app is the state shared by every command of one invocation.
type app struct {
	fs         afero.Fs
	configFile string
	verbose    int
	quiet      bool

	cfg    *config.Config
	logger hclog.Logger
	stdout io.Writer
	stderr io.Writer
}

// Option customises the root command.
type Option func(*app)

// WithFs replaces the filesystem used for config, palettes and sequences.
func WithFs(fs afero.Fs) Option {
	return func(a *app) {
		a.fs = fs
	}
}

// NewRootCmd builds the swatch command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "swatch",
		Short: "Extract fixed-slot colour palettes from images",
		Long: `swatch samples an image and sorts its pixels into 24 fixed palette slots:
eight shades from black to white plus a bright and a dark variant of eight hues.

Every slot always gets a colour. Slots no pixel landed in borrow the nearest
measured colour of their class or fall back to a built-in default, so the
result can drive a terminal colour scheme directly.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "enable verbose output (repeat for trace logging)")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/swatch/config.toml)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newExtractCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newApplyCmd(a),
		newSlotsCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()

	flags := make(map[string]*pflag.Flag, len(flagKeys))
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags[key] = f
		}
	}

	cfg, err := config.Load(a.fs, config.Options{File: a.configFile, Flags: flags})
	if err != nil {
		return err
	}
	a.cfg = cfg

	// AutoColor only works on files.
	logColour := hclog.ColorOff
	if _, ok := a.stderr.(*os.File); ok {
		logColour = hclog.AutoColor
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "swatch",
		Level:  a.logLevel(),
		Output: a.stderr,
		Color:  logColour,
	})
	if cfg.File != "" {
		a.logger.Debug("loaded config", "file", cfg.File)
	}
	return nil
}

func (a *app) logLevel() hclog.Level {
	switch {
	case a.quiet:
		return hclog.Error
	case a.verbose >= 2:
		return hclog.Trace
	case a.verbose == 1:
		return hclog.Debug
	}
	if level := hclog.LevelFromString(a.cfg.Log.Level); level != hclog.NoLevel {
		return level
	}
	return hclog.Warn
}

// printf writes a status line unless --quiet is set.
func (a *app) printf(format string, args ...any) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.stdout, format, args...)
}

func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(a.fs, a.cfg.Paths.Palettes)
	if err != nil {
		return nil, fmt.Errorf("failed to open palette store: %w", err)
	}
	a.logger.Debug("opened palette store", "path", s.Path(), "palettes", s.Len())
	return s, nil
}

func (a *app) newExtractor() (*colour.Extractor, error) {
	table, err := a.cfg.Table()
	if err != nil {
		return nil, err
	}
	return colour.NewExtractor(a.cfg.ExtractorConfig(), table, a.logger.Named("extract"))
}

func (a *app) newLoader() *image.SmartLoader {
	cache := imagecache.New(a.fs, imagecache.CacheOptions{CacheDir: a.cfg.Paths.ImageCache})
	return image.NewSmartLoader(cache)
}

// addExtractFlags registers the flags shared by commands that extract palettes.
// Their defaults come from configuration, so unset flags never override it.
func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("algorithm", "a", string(colour.AlgorithmAnchor), fmt.Sprintf("assignment algorithm %v", colour.ValidAlgorithms()))
	cmd.Flags().IntP("workers", "w", 0, "accumulation workers (0 uses all CPUs)")
	cmd.Flags().Int("sample-budget", image.DefaultSampleBudget, "maximum pixels sampled per image (0 reads every pixel)")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
