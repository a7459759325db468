// Package store persists generated palettes in a TOML file keyed by image path.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/jmylchreest/swatch/internal/colour"
)

// FileName is the name of the palette file inside the config directory.
const FileName = "palettes.toml"

// formatVersion is written to every file so later layouts can be detected.
const formatVersion = 1

// Record is one stored palette. Hex maps slot names to "#rrggbb".
type Record struct {
	Algorithm string            `toml:"algorithm"`
	Pixels    int               `toml:"pixels"`
	Created   time.Time         `toml:"created"`
	Hex       map[string]string `toml:"colours"`
}

// NewRecord captures a finished palette. pixels is the number of pixels
// sampled from the image.
func NewRecord(p *colour.Palette, algorithm colour.Algorithm, pixels int) Record {
	return Record{
		Algorithm: string(algorithm),
		Pixels:    pixels,
		Created:   time.Now().UTC().Truncate(time.Second),
		Hex:       p.Hex(),
	}
}

// Colours decodes the stored hex strings. Unknown slot names and malformed
// colours are errors; slots absent from the record are simply missing.
func (r Record) Colours() (map[colour.Slot]colour.RGB, error) {
	out := make(map[colour.Slot]colour.RGB, len(r.Hex))
	for name, hex := range r.Hex {
		slot, err := colour.ParseSlot(name)
		if err != nil {
			return nil, err
		}
		rgb, err := colour.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", name, err)
		}
		out[slot] = rgb
	}
	return out, nil
}

type document struct {
	Version  int               `toml:"version"`
	Palettes map[string]Record `toml:"palettes"`
}

// Store is an in-memory view of the palette file. Changes are written back
// by Save. A Store is not safe for concurrent use.
type Store struct {
	fs      afero.Fs
	path    string
	records map[string]Record
}

// DefaultPath returns $XDG_CONFIG_HOME/swatch/palettes.toml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "swatch", FileName), nil
}

// Open reads the palette file at path. A missing file yields an empty store.
func Open(fs afero.Fs, path string) (*Store, error) {
	s := &Store{fs: fs, path: path, records: make(map[string]Record)}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read palettes: %w", err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse palettes %s: %w", path, err)
	}
	if doc.Version > formatVersion {
		return nil, fmt.Errorf("palettes file version %d is newer than supported version %d", doc.Version, formatVersion)
	}
	if doc.Palettes != nil {
		s.records = doc.Palettes
	}
	return s, nil
}

// Path returns the file the store reads from and saves to.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of stored palettes.
func (s *Store) Len() int {
	return len(s.records)
}

// Get returns the record for image.
func (s *Store) Get(image string) (Record, bool) {
	r, ok := s.records[image]
	return r, ok
}

// Has reports whether image has a stored palette.
func (s *Store) Has(image string) bool {
	_, ok := s.records[image]
	return ok
}

// Put stores or replaces the record for image.
func (s *Store) Put(image string, r Record) {
	s.records[image] = r
}

// Delete removes the record for image and reports whether one existed.
func (s *Store) Delete(image string) bool {
	if _, ok := s.records[image]; !ok {
		return false
	}
	delete(s.records, image)
	return true
}

// Images returns every stored image path, sorted.
func (s *Store) Images() []string {
	images := lo.Keys(s.records)
	slices.Sort(images)
	return images
}

// Save writes the store to its path. The file is written to a temporary
// sibling and renamed into place.
func (s *Store) Save() error {
	data, err := toml.Marshal(document{Version: formatVersion, Palettes: s.records})
	if err != nil {
		return fmt.Errorf("failed to encode palettes: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create palettes directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, FileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write palettes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write palettes: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace palettes file: %w", err)
	}
	return nil
}
