package colour

// Finish turns accumulated buckets into a complete palette.
//
// A slot with pixels gets the mean of its bucket. An empty slot takes the
// colour of the measured slot of the same class whose mean is nearest to the
// empty slot's default; when its class has no measured slot it keeps the
// default. Only measured slots are backfill sources, so the result does not
// depend on the order in which empty slots are visited.
func Finish(t *Table, buckets Buckets) *Palette {
	p := &Palette{}
	measured := make(map[Class][]Slot)

	for _, s := range t.Slots() {
		a := t.Anchor(s)
		e := Entry{
			Slot:    s,
			Class:   a.Class,
			Default: a.Default,
			Origin:  OriginDefault,
			Source:  s,
		}
		if mean, ok := buckets[s].Mean(); ok && !mean.IsNaN() {
			e.Colour = mean
			e.Count = buckets[s].Count
			e.Origin = OriginMeasured
			measured[a.Class] = append(measured[a.Class], s)
		}
		p.entries[s] = e
	}

	meanOf := func(s Slot) Lab { return p.entries[s].Colour }
	for _, s := range t.Slots() {
		e := &p.entries[s]
		if e.Origin == OriginMeasured {
			continue
		}
		if src, ok := closest(e.Default, measured[e.Class], meanOf); ok {
			e.Colour = p.entries[src].Colour
			e.Origin = OriginBackfilled
			e.Source = src
			continue
		}
		e.Colour = e.Default
	}

	for i := range p.entries {
		p.entries[i].RGB = p.entries[i].Colour.RGB()
	}
	return p
}
