// Package sequences renders a palette as terminal OSC escape sequences that
// recolour a running terminal when written to it.
package sequences

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jmylchreest/swatch/internal/colour"
)

// FileName is the name of the sequences file inside the cache directory.
const FileName = "sequences"

const (
	osc = "\x1b]"
	st  = "\x1b\\"
)

// Mapping chooses which palette slot fills each terminal colour.
type Mapping struct {
	// ANSI holds the slots for the 16 indexed colours.
	ANSI       [16]colour.Slot
	Foreground colour.Slot
	Background colour.Slot
	Cursor     colour.Slot
}

// DefaultMapping maps shades to black, white and the greys, dark hues to
// the normal colours and bright hues to their bright variants.
func DefaultMapping() Mapping {
	return Mapping{
		ANSI: [16]colour.Slot{
			colour.Shade0,
			colour.DarkRed,
			colour.DarkGreen,
			colour.DarkYellow,
			colour.DarkBlue,
			colour.DarkMagenta,
			colour.DarkCyan,
			colour.Shade5,
			colour.Shade3,
			colour.BrightRed,
			colour.BrightGreen,
			colour.BrightYellow,
			colour.BrightBlue,
			colour.BrightMagenta,
			colour.BrightCyan,
			colour.Shade7,
		},
		Foreground: colour.Shade7,
		Background: colour.Shade0,
		Cursor:     colour.Shade7,
	}
}

// Validate checks that every mapped slot exists.
func (m Mapping) Validate() error {
	for i, s := range m.ANSI {
		if !s.Valid() {
			return fmt.Errorf("ansi colour %d: invalid slot %d", i, int(s))
		}
	}
	for name, s := range map[string]colour.Slot{"foreground": m.Foreground, "background": m.Background, "cursor": m.Cursor} {
		if !s.Valid() {
			return fmt.Errorf("%s: invalid slot %d", name, int(s))
		}
	}
	return nil
}

// Render builds the escape sequences for colours under m. Every slot m
// refers to must be present in colours.
func Render(colours map[colour.Slot]colour.RGB, m Mapping) (string, error) {
	if err := m.Validate(); err != nil {
		return "", fmt.Errorf("invalid mapping: %w", err)
	}

	lookup := func(s colour.Slot) (string, error) {
		c, ok := colours[s]
		if !ok {
			return "", fmt.Errorf("palette has no colour for slot %s", s)
		}
		return c.Hex(), nil
	}

	var b strings.Builder
	for i, s := range m.ANSI {
		hex, err := lookup(s)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s4;%d;%s%s", osc, i, hex, st)
	}

	fg, err := lookup(m.Foreground)
	if err != nil {
		return "", err
	}
	bg, err := lookup(m.Background)
	if err != nil {
		return "", err
	}
	cursor, err := lookup(m.Cursor)
	if err != nil {
		return "", err
	}

	special := []struct {
		code string
		hex  string
	}{
		{"10", fg},     // default foreground
		{"11", bg},     // default background
		{"12", cursor}, // cursor
		{"13", fg},     // pointer foreground
		{"17", fg},     // highlight background
		{"19", bg},     // highlight foreground
		{"4;232", bg},
		{"4;256", fg},
		{"708", bg}, // urxvt border
	}
	for _, sp := range special {
		fmt.Fprintf(&b, "%s%s;%s%s", osc, sp.code, sp.hex, st)
	}
	return b.String(), nil
}

// DefaultPath returns $XDG_CACHE_HOME/swatch/sequences or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine cache directory: %w", err)
	}
	return filepath.Join(dir, "swatch", FileName), nil
}

// Write stores seq at path, creating parent directories.
func Write(fs afero.Fs, path, seq string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create sequences directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, []byte(seq), 0o644); err != nil {
		return fmt.Errorf("failed to write sequences: %w", err)
	}
	return nil
}
