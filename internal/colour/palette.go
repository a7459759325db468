package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"iter"
	"strings"
)

// RGB represents a colour in 8-bit sRGB.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// FromColor converts a color.Color to non-premultiplied RGB.
// It returns false for fully transparent colours, which carry no colour
// information.
func FromColor(c color.Color) (RGB, bool) {
	n, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return RGB{}, false
	}
	return RGB{R: n.R, G: n.G, B: n.B}, true
}

// Origin records where a palette entry's colour came from.
type Origin int

const (
	// OriginDefault means the slot kept its anchor default.
	OriginDefault Origin = iota
	// OriginMeasured means the colour is the mean of the slot's pixels.
	OriginMeasured
	// OriginBackfilled means the colour was borrowed from another slot of the same class.
	OriginBackfilled
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginDefault:
		return "default"
	case OriginMeasured:
		return "measured"
	case OriginBackfilled:
		return "backfilled"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Entry is the final colour of one slot.
type Entry struct {
	Slot    Slot   `json:"slot"`
	Class   Class  `json:"class"`
	Colour  Lab    `json:"lab"`
	RGB     RGB    `json:"rgb"`
	Default Lab    `json:"-"`
	Count   int    `json:"count"`
	Origin  Origin `json:"origin"`
	// Source is the slot the colour was taken from; the entry's own slot
	// unless it was backfilled.
	Source Slot `json:"source"`
}

// Hex returns the entry colour as "#rrggbb".
func (e Entry) Hex() string {
	return e.RGB.Hex()
}

// Palette holds one colour for every slot. It is immutable once built.
type Palette struct {
	entries [SlotCount]Entry
}

// Len returns the number of slots in the palette.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Get returns the entry for s.
func (p *Palette) Get(s Slot) (Entry, bool) {
	if !s.Valid() {
		return Entry{}, false
	}
	return p.entries[s], true
}

// Entries returns a copy of every entry in palette order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries[:])
	return out
}

// All returns an iterator over the palette in slot order.
func (p *Palette) All() iter.Seq2[Slot, Entry] {
	return func(yield func(Slot, Entry) bool) {
		for _, e := range p.entries {
			if !yield(e.Slot, e) {
				return
			}
		}
	}
}

// Pixels returns the number of pixels that contributed to the palette.
func (p *Palette) Pixels() int {
	total := 0
	for _, e := range p.entries {
		total += e.Count
	}
	return total
}

// Hex returns the palette as slot name -> "#rrggbb".
func (p *Palette) Hex() map[string]string {
	out := make(map[string]string, len(p.entries))
	for _, e := range p.entries {
		out[e.Slot.String()] = e.Hex()
	}
	return out
}

// Colours returns the palette as slot -> RGB.
func (p *Palette) Colours() map[Slot]RGB {
	out := make(map[Slot]RGB, len(p.entries))
	for _, e := range p.entries {
		out[e.Slot] = e.RGB
	}
	return out
}

// EntryJSON represents one slot in JSON output format.
type EntryJSON struct {
	Slot   Slot   `json:"slot"`
	Class  Class  `json:"class"`
	Hex    string `json:"hex"`
	RGB    RGB    `json:"rgb"`
	Lab    Lab    `json:"lab"`
	Count  int    `json:"count"`
	Origin Origin `json:"origin"`
	Source *Slot  `json:"source,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Pixels int         `json:"pixels"`
	Slots  []EntryJSON `json:"slots"`
}

// ToJSON converts the palette to indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	out := PaletteJSON{
		Pixels: p.Pixels(),
		Slots:  make([]EntryJSON, 0, len(p.entries)),
	}
	for _, e := range p.entries {
		ej := EntryJSON{
			Slot:   e.Slot,
			Class:  e.Class,
			Hex:    e.Hex(),
			RGB:    e.RGB,
			Lab:    e.Colour,
			Count:  e.Count,
			Origin: e.Origin,
		}
		if e.Origin == OriginBackfilled {
			src := e.Source
			ej.Source = &src
		}
		out.Slots = append(out.Slots, ej)
	}
	return json.MarshalIndent(out, "", "  ")
}

// String returns a human-readable representation of the palette.
func (p *Palette) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Palette with %d slots (%d pixels):\n", len(p.entries), p.Pixels())
	for _, e := range p.entries {
		fmt.Fprintf(&b, "  %-15s %s  %s", e.Slot, e.Hex(), e.Origin)
		if e.Origin == OriginBackfilled {
			fmt.Fprintf(&b, " from %s", e.Source)
		}
		b.WriteString("\n")
	}
	return b.String()
}
