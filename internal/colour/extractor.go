package colour

import (
	"fmt"
	"iter"

	"github.com/hashicorp/go-hclog"
)

// Algorithm represents the pixel-to-slot assignment strategy.
type Algorithm string

const (
	// AlgorithmAnchor assigns every pixel to the nearest anchor in OKLab.
	AlgorithmAnchor Algorithm = "anchor"

	// AlgorithmHue assigns chromatic pixels by hue sector and lightness,
	// and achromatic pixels to the nearest shade.
	AlgorithmHue Algorithm = "hue"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmAnchor,
		AlgorithmHue,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// maxWorkers caps the worker pool.
const maxWorkers = 256

// ExtractorConfig holds configuration for palette extraction.
type ExtractorConfig struct {
	Algorithm Algorithm
	// Workers is the accumulation pool size; zero uses GOMAXPROCS.
	Workers int
	// ChunkSize is the number of pixels per worker task; zero uses DefaultChunkSize.
	ChunkSize int
	// HueChromaThreshold is the achromatic cut-off for AlgorithmHue.
	HueChromaThreshold float64
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:          AlgorithmAnchor,
		ChunkSize:          DefaultChunkSize,
		HueChromaThreshold: DefaultHueChromaThreshold,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers too large: %d (maximum: %d)", c.Workers, maxWorkers)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size must not be negative, got %d", c.ChunkSize)
	}
	if c.HueChromaThreshold < 0 || c.HueChromaThreshold > maxChroma {
		return fmt.Errorf("hue chroma threshold must be in [0, %v], got %v", maxChroma, c.HueChromaThreshold)
	}
	return nil
}

// Extractor runs one accumulate-then-finish pass per call. It holds no
// state between calls and is safe for concurrent use.
type Extractor struct {
	config  ExtractorConfig
	table   *Table
	reducer *Reducer
	logger  hclog.Logger
}

// NewExtractor creates an Extractor. A nil table uses DefaultTable and a nil
// logger discards output.
func NewExtractor(cfg ExtractorConfig, table *Table, logger hclog.Logger) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if table == nil {
		table = DefaultTable()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var assigner Assigner
	switch cfg.Algorithm {
	case AlgorithmHue:
		assigner = NewHueAssigner(table, cfg.HueChromaThreshold)
	default:
		assigner = NewNearestAssigner(table)
	}

	return &Extractor{
		config: cfg,
		table:  table,
		reducer: NewReducer(assigner, ReducerOptions{
			Workers:   cfg.Workers,
			ChunkSize: cfg.ChunkSize,
		}),
		logger: logger,
	}, nil
}

// Config returns the configuration the extractor was built with.
func (e *Extractor) Config() ExtractorConfig {
	return e.config
}

// Table returns the anchor table used by the extractor.
func (e *Extractor) Table() *Table {
	return e.table
}

// Extract consumes pixels once and returns the finished palette.
// An empty sequence yields a palette of anchor defaults.
func (e *Extractor) Extract(pixels iter.Seq[RGB]) *Palette {
	buckets, stats := e.reducer.AccumulateStats(pixels)
	e.logger.Debug("accumulated pixels",
		"algorithm", e.config.Algorithm,
		"pixels", stats.Pixels,
		"dropped", stats.Dropped,
		"chunks", stats.Chunks,
		"populated", len(buckets))

	palette := Finish(e.table, buckets)
	if e.logger.IsTrace() {
		for slot, entry := range palette.All() {
			if entry.Origin == OriginMeasured {
				continue
			}
			e.logger.Trace("slot not measured", "slot", slot.String(), "origin", entry.Origin.String(), "source", entry.Source.String())
		}
	}
	return palette
}
