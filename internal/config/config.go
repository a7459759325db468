// Package config loads swatch settings from defaults, a TOML config file,
// SWATCH_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/sequences"
	"github.com/jmylchreest/swatch/internal/store"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SWATCH"

// FileName is the config file name without extension.
const FileName = "config"

// EnvKeyReplacer maps config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Extract controls palette extraction.
type Extract struct {
	Algorithm          string  `mapstructure:"algorithm" toml:"algorithm"`
	Workers            int     `mapstructure:"workers" toml:"workers"`
	ChunkSize          int     `mapstructure:"chunk_size" toml:"chunk_size"`
	SampleBudget       int     `mapstructure:"sample_budget" toml:"sample_budget"`
	HueChromaThreshold float64 `mapstructure:"hue_chroma_threshold" toml:"hue_chroma_threshold"`
}

// Anchors holds the anchor table parameters.
type Anchors struct {
	ShadeMin        float64 `mapstructure:"shade_min" toml:"shade_min"`
	ShadeMax        float64 `mapstructure:"shade_max" toml:"shade_max"`
	BrightLightness float64 `mapstructure:"bright_lightness" toml:"bright_lightness"`
	BrightChroma    float64 `mapstructure:"bright_chroma" toml:"bright_chroma"`
	DarkLightness   float64 `mapstructure:"dark_lightness" toml:"dark_lightness"`
	DarkChroma      float64 `mapstructure:"dark_chroma" toml:"dark_chroma"`
	HueOffset       float64 `mapstructure:"hue_offset" toml:"hue_offset"`
}

// Paths locates the files swatch reads and writes.
type Paths struct {
	Palettes   string `mapstructure:"palettes" toml:"palettes"`
	Sequences  string `mapstructure:"sequences" toml:"sequences"`
	ImageCache string `mapstructure:"image_cache" toml:"image_cache"`
}

// Log controls logging.
type Log struct {
	Level string `mapstructure:"level" toml:"level"`
}

// Config is the resolved configuration.
type Config struct {
	Extract Extract `mapstructure:"extract" toml:"extract"`
	Anchors Anchors `mapstructure:"anchors" toml:"anchors"`
	Paths   Paths   `mapstructure:"paths" toml:"paths"`
	Log     Log     `mapstructure:"log" toml:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" toml:"-"`
}

// Defaults returns the built-in value of every config key. Path defaults
// are empty and resolved to platform directories by Load.
func Defaults() map[string]any {
	extract := colour.DefaultExtractorConfig()
	table := colour.DefaultTableParams()
	return map[string]any{
		"extract.algorithm":            string(extract.Algorithm),
		"extract.workers":              extract.Workers,
		"extract.chunk_size":           extract.ChunkSize,
		"extract.sample_budget":        image.DefaultSampleBudget,
		"extract.hue_chroma_threshold": extract.HueChromaThreshold,
		"anchors.shade_min":            table.ShadeMin,
		"anchors.shade_max":            table.ShadeMax,
		"anchors.bright_lightness":     table.BrightLightness,
		"anchors.bright_chroma":        table.BrightChroma,
		"anchors.dark_lightness":       table.DarkLightness,
		"anchors.dark_chroma":          table.DarkChroma,
		"anchors.hue_offset":           table.HueOffset,
		"paths.palettes":               "",
		"paths.sequences":              "",
		"paths.image_cache":            "",
		"log.level":                    "warn",
	}
}

// Dir returns the directory searched for config.toml.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "swatch"), nil
}

// Options controls Load.
type Options struct {
	// File is an explicit config file. When empty, config.toml is looked up
	// in SearchPaths and a missing file is not an error.
	File string
	// SearchPaths overrides the directories searched for config.toml.
	SearchPaths []string
	// Flags maps config keys to command-line flags. Only flags the user set
	// override lower layers.
	Flags map[string]*pflag.Flag
}

// Load resolves the configuration on fs.
func Load(fs afero.Fs, opts Options) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("toml")

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()

	for key, flag := range opts.Flags {
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(FileName)
		searchPaths := opts.SearchPaths
		if len(searchPaths) == 0 {
			if dir, err := Dir(); err == nil {
				searchPaths = []string{dir}
			}
		}
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() error {
	if c.Paths.Palettes == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return err
		}
		c.Paths.Palettes = p
	}
	if c.Paths.Sequences == "" {
		p, err := sequences.DefaultPath()
		if err != nil {
			return err
		}
		c.Paths.Sequences = p
	}
	if c.Paths.ImageCache == "" {
		p, err := imagecache.DefaultCacheDir()
		if err != nil {
			return err
		}
		c.Paths.ImageCache = p
	}
	return nil
}

// Validate checks the extraction and anchor settings.
func (c *Config) Validate() error {
	if c.Extract.SampleBudget < 0 {
		return fmt.Errorf("sample budget must not be negative, got %d", c.Extract.SampleBudget)
	}
	if err := c.ExtractorConfig().Validate(); err != nil {
		return err
	}
	return c.TableParams().Validate()
}

// ExtractorConfig returns the extraction settings for colour.NewExtractor.
func (c *Config) ExtractorConfig() colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Algorithm:          colour.Algorithm(c.Extract.Algorithm),
		Workers:            c.Extract.Workers,
		ChunkSize:          c.Extract.ChunkSize,
		HueChromaThreshold: c.Extract.HueChromaThreshold,
	}
}

// TableParams returns the anchor table parameters.
func (c *Config) TableParams() colour.TableParams {
	return colour.TableParams{
		ShadeMin:        c.Anchors.ShadeMin,
		ShadeMax:        c.Anchors.ShadeMax,
		BrightLightness: c.Anchors.BrightLightness,
		BrightChroma:    c.Anchors.BrightChroma,
		DarkLightness:   c.Anchors.DarkLightness,
		DarkChroma:      c.Anchors.DarkChroma,
		HueOffset:       c.Anchors.HueOffset,
	}
}

// Table builds the anchor table. The default parameters share
// colour.DefaultTable.
func (c *Config) Table() (*colour.Table, error) {
	params := c.TableParams()
	if params == colour.DefaultTableParams() {
		return colour.DefaultTable(), nil
	}
	return colour.NewTable(params)
}

// TOML renders the resolved configuration as a config file.
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
