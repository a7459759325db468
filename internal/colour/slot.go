package colour

import (
	"fmt"
	"math"
	"sync"
)

// Class groups slots into visually compatible families.
type Class int

const (
	// ClassShade holds the achromatic ramp.
	ClassShade Class = iota
	// ClassBright holds the light, saturated hues.
	ClassBright
	// ClassDark holds the deep hues.
	ClassDark
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassShade:
		return "shade"
	case ClassBright:
		return "bright"
	case ClassDark:
		return "dark"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseClass parses a class name.
func ParseClass(s string) (Class, error) {
	for _, c := range []Class{ClassShade, ClassBright, ClassDark} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown colour class: %s (valid: shade, bright, dark)", s)
}

// Slot identifies one named position in the output palette.
type Slot int

// Slots in palette order.
const (
	Shade0 Slot = iota
	Shade1
	Shade2
	Shade3
	Shade4
	Shade5
	Shade6
	Shade7
	BrightRed
	BrightOrange
	BrightYellow
	BrightGreen
	BrightCyan
	BrightBlue
	BrightPurple
	BrightMagenta
	DarkRed
	DarkOrange
	DarkYellow
	DarkGreen
	DarkCyan
	DarkBlue
	DarkPurple
	DarkMagenta
)

const (
	// ShadeCount is the number of achromatic slots.
	ShadeCount = 8
	// HueCount is the number of hues; each hue has a bright and a dark slot.
	HueCount = 8
	// SlotCount is the total number of slots.
	SlotCount = ShadeCount + 2*HueCount
)

var hueNames = [HueCount]string{"red", "orange", "yellow", "green", "cyan", "blue", "purple", "magenta"}

// AllSlots returns every slot in palette order.
func AllSlots() []Slot {
	slots := make([]Slot, SlotCount)
	for i := range slots {
		slots[i] = Slot(i)
	}
	return slots
}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	return s >= 0 && s < SlotCount
}

// Class returns the colour class of the slot.
func (s Slot) Class() Class {
	switch {
	case s < BrightRed:
		return ClassShade
	case s < DarkRed:
		return ClassBright
	default:
		return ClassDark
	}
}

// hueIndex returns the position of a hue slot on the hue circle, or -1 for shades.
func (s Slot) hueIndex() int {
	switch s.Class() {
	case ClassBright:
		return int(s - BrightRed)
	case ClassDark:
		return int(s - DarkRed)
	default:
		return -1
	}
}

// String returns the slot name, e.g. "shade3", "bright_red" or "dark_cyan".
func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	switch s.Class() {
	case ClassShade:
		return fmt.Sprintf("shade%d", int(s))
	case ClassBright:
		return "bright_" + hueNames[s.hueIndex()]
	default:
		return "dark_" + hueNames[s.hueIndex()]
	}
}

// MarshalText implements encoding.TextMarshaler so slots encode by name.
func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid slot: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slot) UnmarshalText(text []byte) error {
	parsed, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSlot parses a slot name as returned by Slot.String.
func ParseSlot(name string) (Slot, error) {
	for _, s := range AllSlots() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown slot: %s", name)
}

// Anchor is the fixed description of one slot.
type Anchor struct {
	Slot    Slot
	Class   Class
	Default Lab
	// Hue is the anchor hue in degrees; zero for shades.
	Hue float64
}

// TableParams controls how the anchor defaults are generated.
type TableParams struct {
	ShadeMin        float64 `json:"shade_min"`
	ShadeMax        float64 `json:"shade_max"`
	BrightLightness float64 `json:"bright_lightness"`
	BrightChroma    float64 `json:"bright_chroma"`
	DarkLightness   float64 `json:"dark_lightness"`
	DarkChroma      float64 `json:"dark_chroma"`
	HueOffset       float64 `json:"hue_offset"`
}

// DefaultTableParams returns parameters whose anchors all sit inside the
// sRGB gamut.
func DefaultTableParams() TableParams {
	return TableParams{
		ShadeMin:        0.08,
		ShadeMax:        0.96,
		BrightLightness: 0.78,
		BrightChroma:    0.10,
		DarkLightness:   0.55,
		DarkChroma:      0.09,
		HueOffset:       25,
	}
}

// maxChroma bounds anchor chroma; nothing in sRGB reaches it.
const maxChroma = 0.4

// Validate checks the parameters.
func (p TableParams) Validate() error {
	for name, v := range map[string]float64{
		"shade_min":        p.ShadeMin,
		"shade_max":        p.ShadeMax,
		"bright_lightness": p.BrightLightness,
		"bright_chroma":    p.BrightChroma,
		"dark_lightness":   p.DarkLightness,
		"dark_chroma":      p.DarkChroma,
		"hue_offset":       p.HueOffset,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, v)
		}
	}
	if p.ShadeMin < 0 || p.ShadeMax > MaxLightness || p.ShadeMin >= p.ShadeMax {
		return fmt.Errorf("shade range must satisfy 0 <= min < max <= %v, got [%v, %v]", MaxLightness, p.ShadeMin, p.ShadeMax)
	}
	if p.BrightLightness <= 0 || p.BrightLightness >= MaxLightness {
		return fmt.Errorf("bright lightness must be in (0, %v), got %v", MaxLightness, p.BrightLightness)
	}
	if p.DarkLightness <= 0 || p.DarkLightness >= MaxLightness {
		return fmt.Errorf("dark lightness must be in (0, %v), got %v", MaxLightness, p.DarkLightness)
	}
	if p.BrightChroma <= 0 || p.BrightChroma > maxChroma {
		return fmt.Errorf("bright chroma must be in (0, %v], got %v", maxChroma, p.BrightChroma)
	}
	if p.DarkChroma <= 0 || p.DarkChroma > maxChroma {
		return fmt.Errorf("dark chroma must be in (0, %v], got %v", maxChroma, p.DarkChroma)
	}
	return nil
}

// Table is the immutable anchor catalogue. Build it once and share the
// pointer; nothing mutates it after NewTable returns.
type Table struct {
	params  TableParams
	anchors [SlotCount]Anchor
}

// NewTable generates the anchor table from p.
func NewTable(p TableParams) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid anchor parameters: %w", err)
	}

	t := &Table{params: p}
	step := (p.ShadeMax - p.ShadeMin) / float64(ShadeCount-1)
	for _, s := range AllSlots() {
		a := Anchor{Slot: s, Class: s.Class()}
		switch a.Class {
		case ClassShade:
			a.Default = Lab{L: p.ShadeMin + float64(s)*step}
		case ClassBright:
			a.Hue = anchorHue(p.HueOffset, s.hueIndex())
			a.Default = FromLCh(p.BrightLightness, p.BrightChroma, a.Hue)
		case ClassDark:
			a.Hue = anchorHue(p.HueOffset, s.hueIndex())
			a.Default = FromLCh(p.DarkLightness, p.DarkChroma, a.Hue)
		}
		t.anchors[s] = a
	}
	return t, nil
}

func anchorHue(offset float64, index int) float64 {
	h := math.Mod(offset+float64(index)*360/HueCount, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// DefaultTable returns the process-wide table built from DefaultTableParams.
var DefaultTable = sync.OnceValue(func() *Table {
	t, err := NewTable(DefaultTableParams())
	if err != nil {
		panic(fmt.Sprintf("default anchor table: %v", err))
	}
	return t
})

// Params returns the parameters the table was built from.
func (t *Table) Params() TableParams {
	return t.params
}

// Slots returns every slot in palette order.
func (t *Table) Slots() []Slot {
	return AllSlots()
}

// Anchor returns the anchor for s. Invalid slots yield the zero Anchor.
func (t *Table) Anchor(s Slot) Anchor {
	if !s.Valid() {
		return Anchor{}
	}
	return t.anchors[s]
}

// Default returns the default colour of s.
func (t *Table) Default(s Slot) Lab {
	return t.Anchor(s).Default
}

// Class returns the colour class of s.
func (t *Table) Class(s Slot) Class {
	return s.Class()
}

// SlotsOf returns the slots of class c in palette order.
func (t *Table) SlotsOf(c Class) []Slot {
	var slots []Slot
	for _, a := range t.anchors {
		if a.Class == c {
			slots = append(slots, a.Slot)
		}
	}
	return slots
}
