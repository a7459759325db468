package colour

import (
	"math"
	"slices"
)

// Assigner maps a perceptual colour onto a palette slot.
// It reports false when no slot can take the colour.
type Assigner interface {
	Assign(c Lab) (Slot, bool)
}

// NearestAssigner assigns a colour to the anchor with the smallest squared
// OKLab distance.
type NearestAssigner struct {
	table *Table
}

// NewNearestAssigner creates an assigner over t.
func NewNearestAssigner(t *Table) *NearestAssigner {
	return &NearestAssigner{table: t}
}

// Assign returns the nearest slot of any class.
func (n *NearestAssigner) Assign(c Lab) (Slot, bool) {
	return n.Nearest(c)
}

// Nearest returns the slot whose default colour is nearest to c.
// When classes are given, only slots of those classes are candidates.
// It returns false only when the candidate set is empty.
func (n *NearestAssigner) Nearest(c Lab, classes ...Class) (Slot, bool) {
	candidates := make([]Slot, 0, SlotCount)
	for _, s := range n.table.Slots() {
		if len(classes) == 0 || slices.Contains(classes, s.Class()) {
			candidates = append(candidates, s)
		}
	}
	return closest(c, candidates, n.table.Default)
}

// closest returns the candidate whose colour is nearest to target.
// A NaN distance counts as +Inf, so such candidates only win when every
// candidate is NaN; then the first candidate wins. Ties keep the earlier
// candidate.
func closest(target Lab, candidates []Slot, colourOf func(Slot) Lab) (Slot, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	bestDist := finiteOrInf(target.DistanceSquared(colourOf(best)))
	for _, s := range candidates[1:] {
		d := finiteOrInf(target.DistanceSquared(colourOf(s)))
		if d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, true
}

func finiteOrInf(d float64) float64 {
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}

// DefaultHueChromaThreshold is the chroma below which HueAssigner treats a
// colour as achromatic.
const DefaultHueChromaThreshold = 0.03

// HueAssigner buckets colours by hue sector rather than by full Lab
// distance. Low-chroma colours go to the nearest shade; the rest choose the
// bright or dark class by lightness and the anchor with the smallest circular
// hue distance within it.
type HueAssigner struct {
	table           *Table
	chromaThreshold float64
	splitLightness  float64
}

// NewHueAssigner creates a hue-sector assigner over t.
func NewHueAssigner(t *Table, chromaThreshold float64) *HueAssigner {
	p := t.Params()
	return &HueAssigner{
		table:           t,
		chromaThreshold: chromaThreshold,
		splitLightness:  (p.BrightLightness + p.DarkLightness) / 2,
	}
}

// Assign implements Assigner.
func (h *HueAssigner) Assign(c Lab) (Slot, bool) {
	if c.IsNaN() {
		return 0, false
	}

	l, chroma, hue := c.LCh()
	if chroma < h.chromaThreshold {
		return closest(c, h.table.SlotsOf(ClassShade), h.table.Default)
	}

	class := ClassDark
	if l >= h.splitLightness {
		class = ClassBright
	}

	candidates := h.table.SlotsOf(class)
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	bestDist := HueDistance(hue, h.table.Anchor(best).Hue)
	for _, s := range candidates[1:] {
		if d := HueDistance(hue, h.table.Anchor(s).Hue); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, true
}
