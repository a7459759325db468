package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/swatch/internal/colour"
	"github.com/jmylchreest/swatch/internal/image"
)

const configDir = "/home/user/.config/swatch"

func TestLoad(t *testing.T) {
	Convey("Given an empty filesystem", t, func() {
		fs := afero.NewMemMapFs()
		opts := Options{SearchPaths: []string{configDir}}

		Convey("Load returns the defaults", func() {
			cfg, err := Load(fs, opts)
			So(err, ShouldBeNil)
			So(cfg.File, ShouldBeEmpty)
			So(cfg.Extract.Algorithm, ShouldEqual, "anchor")
			So(cfg.Extract.SampleBudget, ShouldEqual, image.DefaultSampleBudget)
			So(cfg.ExtractorConfig(), ShouldResemble, colour.DefaultExtractorConfig())
			So(cfg.TableParams(), ShouldResemble, colour.DefaultTableParams())
			So(cfg.Paths.Palettes, ShouldNotBeEmpty)
			So(cfg.Log.Level, ShouldEqual, "warn")

			table, err := cfg.Table()
			So(err, ShouldBeNil)
			So(table, ShouldEqual, colour.DefaultTable())
		})

		Convey("A missing explicit config file is an error", func() {
			_, err := Load(fs, Options{File: "/nowhere/config.toml"})
			So(err, ShouldNotBeNil)
		})

		Convey("When a config file exists", func() {
			file := `
[extract]
algorithm = "hue"
workers = 3

[anchors]
hue_offset = 10.0

[paths]
palettes = "/data/palettes.toml"
`
			So(afero.WriteFile(fs, configDir+"/config.toml", []byte(file), 0o644), ShouldBeNil)

			Convey("Then its values override the defaults", func() {
				cfg, err := Load(fs, opts)
				So(err, ShouldBeNil)
				So(cfg.File, ShouldEqual, configDir+"/config.toml")
				So(cfg.Extract.Algorithm, ShouldEqual, "hue")
				So(cfg.Extract.Workers, ShouldEqual, 3)
				So(cfg.Extract.ChunkSize, ShouldEqual, colour.DefaultChunkSize)
				So(cfg.Anchors.HueOffset, ShouldEqual, 10.0)
				So(cfg.Paths.Palettes, ShouldEqual, "/data/palettes.toml")

				table, err := cfg.Table()
				So(err, ShouldBeNil)
				So(table.Anchor(colour.BrightRed).Hue, ShouldEqual, 10.0)
			})

			Convey("Then environment variables override the file", func() {
				t.Setenv("SWATCH_EXTRACT_WORKERS", "7")
				cfg, err := Load(fs, opts)
				So(err, ShouldBeNil)
				So(cfg.Extract.Workers, ShouldEqual, 7)
				So(cfg.Extract.Algorithm, ShouldEqual, "hue")
			})

			Convey("Then set flags override everything", func() {
				t.Setenv("SWATCH_EXTRACT_WORKERS", "7")
				flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
				flags.Int("workers", 0, "")
				flags.String("algorithm", "anchor", "")
				So(flags.Parse([]string{"--workers", "2"}), ShouldBeNil)

				cfg, err := Load(fs, Options{
					SearchPaths: []string{configDir},
					Flags: map[string]*pflag.Flag{
						"extract.workers":   flags.Lookup("workers"),
						"extract.algorithm": flags.Lookup("algorithm"),
					},
				})
				So(err, ShouldBeNil)
				So(cfg.Extract.Workers, ShouldEqual, 2)
				So(cfg.Extract.Algorithm, ShouldEqual, "hue")
			})
		})

		Convey("Invalid values are rejected", func() {
			So(afero.WriteFile(fs, configDir+"/config.toml", []byte("[extract]\nalgorithm = \"median-cut\"\n"), 0o644), ShouldBeNil)
			_, err := Load(fs, opts)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid algorithm")
		})

		Convey("Invalid anchor parameters are rejected", func() {
			So(afero.WriteFile(fs, configDir+"/config.toml", []byte("[anchors]\nshade_min = 0.9\nshade_max = 0.1\n"), 0o644), ShouldBeNil)
			_, err := Load(fs, opts)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestTOML(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg, err := Load(afero.NewMemMapFs(), Options{SearchPaths: []string{configDir}})
		So(err, ShouldBeNil)

		Convey("TOML renders every section", func() {
			data, err := cfg.TOML()
			So(err, ShouldBeNil)
			for _, section := range []string{"[extract]", "[anchors]", "[paths]", "[log]"} {
				So(string(data), ShouldContainSubstring, section)
			}
		})
	})
}

func TestEnvKeyReplacer(t *testing.T) {
	Convey("EnvKeyReplacer converts dots to underscores", t, func() {
		So(EnvKeyReplacer.Replace("extract.sample_budget"), ShouldEqual, "extract_sample_budget")
	})
}
