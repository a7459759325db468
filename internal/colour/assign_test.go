package colour

import (
	"math"
	"testing"
)

// TestNearestSelfAssign tests that every default colour, quantised to bytes,
// is assigned back to its own slot.
func TestNearestSelfAssign(t *testing.T) {
	table := DefaultTable()
	a := NewNearestAssigner(table)

	for _, s := range table.Slots() {
		t.Run(s.String(), func(t *testing.T) {
			got, ok := a.Assign(table.Default(s))
			if !ok || got != s {
				t.Errorf("Assign(default) = %v, %v, want %v", got, ok, s)
			}

			quantised := FromRGB(table.Default(s).RGB())
			got, ok = a.Assign(quantised)
			if !ok || got != s {
				t.Errorf("Assign(%s) = %v, %v, want %v", table.Default(s).Hex(), got, ok, s)
			}
		})
	}
}

func TestNearestKnownColours(t *testing.T) {
	a := NewNearestAssigner(DefaultTable())

	tests := []struct {
		name string
		rgb  RGB
		want Slot
	}{
		{name: "black", rgb: RGB{}, want: Shade0},
		{name: "white", rgb: RGB{R: 255, G: 255, B: 255}, want: Shade7},
		{name: "mid grey", rgb: RGB{R: 128, G: 128, B: 128}, want: Shade4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.Assign(FromRGB(tt.rgb))
			if !ok || got != tt.want {
				t.Errorf("Assign(%v) = %v, %v, want %v", tt.rgb, got, ok, tt.want)
			}
		})
	}
}

func TestNearestClassFilter(t *testing.T) {
	table := DefaultTable()
	a := NewNearestAssigner(table)
	red := table.Default(BrightRed)

	got, ok := a.Nearest(red, ClassDark)
	if !ok || got != DarkRed {
		t.Errorf("Nearest(bright red, dark) = %v, %v, want %v", got, ok, DarkRed)
	}

	got, ok = a.Nearest(red, ClassShade)
	if !ok || got.Class() != ClassShade {
		t.Errorf("Nearest(bright red, shade) = %v, %v, want a shade", got, ok)
	}

	got, ok = a.Nearest(red, ClassDark, ClassBright)
	if !ok || got != BrightRed {
		t.Errorf("Nearest(bright red, dark|bright) = %v, %v, want %v", got, ok, BrightRed)
	}

	if _, ok := a.Nearest(red, Class(99)); ok {
		t.Error("Nearest with no candidates should report false")
	}
}

func TestClosest(t *testing.T) {
	colours := map[Slot]Lab{
		Shade0: {L: 0.5},
		Shade1: {L: 0.5},
		Shade2: {L: 0.9},
		Shade3: {L: math.NaN()},
	}
	colourOf := func(s Slot) Lab { return colours[s] }

	tests := []struct {
		name       string
		target     Lab
		candidates []Slot
		want       Slot
		wantOK     bool
	}{
		{name: "empty", target: Lab{L: 0.5}, candidates: nil, wantOK: false},
		{name: "tie keeps first", target: Lab{L: 0.5}, candidates: []Slot{Shade1, Shade0}, want: Shade1, wantOK: true},
		{name: "nearest wins", target: Lab{L: 0.8}, candidates: []Slot{Shade0, Shade1, Shade2}, want: Shade2, wantOK: true},
		{name: "NaN candidate loses", target: Lab{L: 0.5}, candidates: []Slot{Shade3, Shade2}, want: Shade2, wantOK: true},
		{name: "NaN target takes first", target: Lab{L: math.NaN()}, candidates: []Slot{Shade2, Shade0}, want: Shade2, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := closest(tt.target, tt.candidates, colourOf)
			if ok != tt.wantOK {
				t.Fatalf("closest() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("closest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHueAssigner(t *testing.T) {
	table := DefaultTable()
	a := NewHueAssigner(table, DefaultHueChromaThreshold)

	tests := []struct {
		name   string
		colour Lab
		want   Slot
		wantOK bool
	}{
		{name: "mid grey", colour: FromRGB(RGB{R: 128, G: 128, B: 128}), want: Shade4, wantOK: true},
		{name: "black", colour: Lab{}, want: Shade0, wantOK: true},
		{name: "light red", colour: FromLCh(0.9, 0.2, 25), want: BrightRed, wantOK: true},
		{name: "deep red", colour: FromLCh(0.3, 0.2, 25), want: DarkRed, wantOK: true},
		{name: "hue just past red", colour: FromLCh(0.8, 0.1, 45), want: BrightRed, wantOK: true},
		{name: "wrapped magenta", colour: FromLCh(0.8, 0.1, 355), want: BrightMagenta, wantOK: true},
		{name: "low chroma blue", colour: FromLCh(0.5, 0.02, 250), want: Shade3, wantOK: true},
		{name: "NaN", colour: Lab{L: math.NaN()}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.Assign(tt.colour)
			if ok != tt.wantOK {
				t.Fatalf("Assign(%v) ok = %v, want %v", tt.colour, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Assign(%v) = %v, want %v", tt.colour, got, tt.want)
			}
		})
	}
}

func TestHueDistance(t *testing.T) {
	tests := []struct {
		h1, h2 float64
		want   float64
	}{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{0, 180, 180},
		{90, 300, 150},
		{720, 5, 5},
	}

	for _, tt := range tests {
		if got := HueDistance(tt.h1, tt.h2); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HueDistance(%v, %v) = %v, want %v", tt.h1, tt.h2, got, tt.want)
		}
	}
}

func TestContrastRatio(t *testing.T) {
	black := RGB{}
	white := RGB{R: 255, G: 255, B: 255}
	if got := ContrastRatio(black, white); math.Abs(got-21) > 1e-9 {
		t.Errorf("ContrastRatio(black, white) = %v, want 21", got)
	}
	if got := ContrastRatio(white, white); got != 1 {
		t.Errorf("ContrastRatio(white, white) = %v, want 1", got)
	}
}
