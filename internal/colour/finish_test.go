package colour

import (
	"math"
	"slices"
	"testing"
)

func defaultBucket(t *Table, s Slot) Bucket {
	var b Bucket
	b.Add(t.Default(s))
	return b
}

func TestFinishEmpty(t *testing.T) {
	table := DefaultTable()
	p := Finish(table, Buckets{})

	if p.Len() != SlotCount {
		t.Fatalf("Len() = %d, want %d", p.Len(), SlotCount)
	}
	for s, e := range p.All() {
		if e.Origin != OriginDefault {
			t.Errorf("%s origin = %s, want default", s, e.Origin)
		}
		if e.Source != s || e.Count != 0 {
			t.Errorf("%s source = %s count = %d", s, e.Source, e.Count)
		}
		if e.Hex() != table.Default(s).Hex() {
			t.Errorf("%s = %s, want default %s", s, e.Hex(), table.Default(s).Hex())
		}
	}
	if p.Pixels() != 0 {
		t.Errorf("Pixels() = %d, want 0", p.Pixels())
	}
}

// TestFinishCoverage tests that every slot gets exactly one colour and the
// counts add up to the accumulated pixels.
func TestFinishCoverage(t *testing.T) {
	table := DefaultTable()
	pixels := randomPixels(13, 3000)
	buckets := NewReducer(NewNearestAssigner(table), ReducerOptions{}).AccumulateSlice(pixels)
	p := Finish(table, buckets)

	seen := make(map[Slot]bool)
	for s, e := range p.All() {
		if seen[s] {
			t.Errorf("slot %s visited twice", s)
		}
		seen[s] = true
		if e.Slot != s || e.Class != s.Class() {
			t.Errorf("entry %v does not match slot %s", e, s)
		}
		if e.Colour.IsNaN() {
			t.Errorf("%s has NaN colour", s)
		}
	}
	if len(seen) != SlotCount {
		t.Errorf("visited %d slots, want %d", len(seen), SlotCount)
	}
	if p.Pixels() != len(pixels) {
		t.Errorf("Pixels() = %d, want %d", p.Pixels(), len(pixels))
	}
}

func TestFinishMonochrome(t *testing.T) {
	table := DefaultTable()
	grey := RGB{R: 128, G: 128, B: 128}
	pixels := slices.Repeat([]RGB{grey}, 500)
	p := Finish(table, NewReducer(NewNearestAssigner(table), ReducerOptions{}).AccumulateSlice(pixels))

	for s, e := range p.All() {
		switch {
		case s == Shade4:
			if e.Origin != OriginMeasured || e.Count != len(pixels) {
				t.Errorf("shade4 = %s with %d pixels", e.Origin, e.Count)
			}
			if e.RGB != grey {
				t.Errorf("shade4 = %v, want %v", e.RGB, grey)
			}
		case s.Class() == ClassShade:
			if e.Origin != OriginBackfilled || e.Source != Shade4 || e.RGB != grey {
				t.Errorf("%s = %v %s from %s, want backfill from shade4", s, e.RGB, e.Origin, e.Source)
			}
		default:
			if e.Origin != OriginDefault || e.Hex() != table.Default(s).Hex() {
				t.Errorf("%s = %s %s, want default", s, e.Hex(), e.Origin)
			}
		}
	}
}

// TestFinishOnePixelPerSlot tests that a pixel at every default colour
// reproduces the default palette.
func TestFinishOnePixelPerSlot(t *testing.T) {
	table := DefaultTable()
	var pixels []RGB
	for _, s := range table.Slots() {
		pixels = append(pixels, table.Default(s).RGB())
	}

	p := Finish(table, NewReducer(NewNearestAssigner(table), ReducerOptions{ChunkSize: 5}).AccumulateSlice(pixels))
	for s, e := range p.All() {
		if e.Origin != OriginMeasured || e.Count != 1 {
			t.Errorf("%s = %s with %d pixels, want measured with 1", s, e.Origin, e.Count)
		}
		want := pixels[s]
		if absDiff(e.RGB.R, want.R) > 1 || absDiff(e.RGB.G, want.G) > 1 || absDiff(e.RGB.B, want.B) > 1 {
			t.Errorf("%s = %s, want %s", s, e.Hex(), want.Hex())
		}
	}
}

func TestFinishBackfillNearest(t *testing.T) {
	table := DefaultTable()
	buckets := Buckets{
		BrightRed:  defaultBucket(table, BrightRed),
		BrightBlue: defaultBucket(table, BrightBlue),
	}
	p := Finish(table, buckets)

	tests := []struct {
		slot   Slot
		origin Origin
		source Slot
	}{
		{BrightRed, OriginMeasured, BrightRed},
		{BrightBlue, OriginMeasured, BrightBlue},
		{BrightOrange, OriginBackfilled, BrightRed},
		{BrightYellow, OriginBackfilled, BrightRed},
		{BrightGreen, OriginBackfilled, BrightBlue},
		{BrightCyan, OriginBackfilled, BrightBlue},
		{BrightPurple, OriginBackfilled, BrightBlue},
		{BrightMagenta, OriginBackfilled, BrightRed},
		{DarkPurple, OriginDefault, DarkPurple},
		{Shade2, OriginDefault, Shade2},
	}

	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			e, ok := p.Get(tt.slot)
			if !ok {
				t.Fatalf("Get(%s) failed", tt.slot)
			}
			if e.Origin != tt.origin || e.Source != tt.source {
				t.Errorf("%s = %s from %s, want %s from %s", tt.slot, e.Origin, e.Source, tt.origin, tt.source)
			}
			want := table.Default(tt.source).Hex()
			if e.Hex() != want {
				t.Errorf("%s = %s, want %s", tt.slot, e.Hex(), want)
			}
		})
	}
}

func TestFinishNaNBucket(t *testing.T) {
	table := DefaultTable()
	buckets := Buckets{
		Shade2: {SumL: math.NaN(), Count: 1},
		Shade5: {SumL: 3, Count: 0},
	}
	p := Finish(table, buckets)

	for s, e := range p.All() {
		if e.Origin != OriginDefault {
			t.Errorf("%s origin = %s, want default", s, e.Origin)
		}
	}
}

// TestFinishCircularMean tests that hues either side of 0 degrees average to
// 0 degrees rather than 180.
func TestFinishCircularMean(t *testing.T) {
	params := DefaultTableParams()
	params.HueOffset = 0
	table, err := NewTable(params)
	if err != nil {
		t.Fatalf("NewTable error: %v", err)
	}

	assigner := NewHueAssigner(table, DefaultHueChromaThreshold)
	buckets := Buckets{}
	for _, hue := range []float64{350, 10} {
		c := FromLCh(0.8, 0.1, hue)
		s, ok := assigner.Assign(c)
		if !ok || s != BrightRed {
			t.Fatalf("Assign(hue %v) = %v, %v, want bright_red", hue, s, ok)
		}
		b := buckets[s]
		b.Add(c)
		buckets[s] = b
	}

	e, _ := Finish(table, buckets).Get(BrightRed)
	l, chroma, hue := e.Colour.LCh()
	if math.Abs(l-0.8) > 1e-9 {
		t.Errorf("lightness = %v, want 0.8", l)
	}
	if HueDistance(hue, 0) > 1e-6 {
		t.Errorf("hue = %v, want 0", hue)
	}
	if want := 0.1 * math.Cos(10*math.Pi/180); math.Abs(chroma-want) > 1e-9 {
		t.Errorf("chroma = %v, want %v", chroma, want)
	}
}
