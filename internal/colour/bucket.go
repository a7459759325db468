package colour

import (
	"cmp"
	"iter"
	"runtime"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// DefaultChunkSize is the number of pixels folded by a worker per task.
const DefaultChunkSize = 4096

// Bucket accumulates the pixels assigned to one slot.
type Bucket struct {
	SumL  float64
	SumA  float64
	SumB  float64
	Count int
}

// Add folds one colour into the bucket.
func (b *Bucket) Add(c Lab) {
	b.SumL += c.L
	b.SumA += c.A
	b.SumB += c.B
	b.Count++
}

// Merge returns the channel-wise sum of two buckets.
func (b Bucket) Merge(o Bucket) Bucket {
	return Bucket{
		SumL:  b.SumL + o.SumL,
		SumA:  b.SumA + o.SumA,
		SumB:  b.SumB + o.SumB,
		Count: b.Count + o.Count,
	}
}

// Mean returns the arithmetic mean colour, or false for an empty bucket.
func (b Bucket) Mean() (Lab, bool) {
	if b.Count <= 0 {
		return Lab{}, false
	}
	n := float64(b.Count)
	return Lab{L: b.SumL / n, A: b.SumA / n, B: b.SumB / n}, true
}

// Buckets maps slots to their accumulators. Slots that received no pixels
// have no entry.
type Buckets map[Slot]Bucket

// Merge returns a new map holding the per-slot sum of b and other.
// Neither input is modified.
func (b Buckets) Merge(other Buckets) Buckets {
	out := make(Buckets, max(len(b), len(other)))
	for s, v := range b {
		out[s] = v
	}
	for s, v := range other {
		out[s] = out[s].Merge(v)
	}
	return out
}

// Total returns the number of pixels across all buckets.
func (b Buckets) Total() int {
	total := 0
	for _, v := range b {
		total += v.Count
	}
	return total
}

// Stats describes one accumulation pass.
type Stats struct {
	Pixels  int
	Dropped int
	Chunks  int
}

// ReducerOptions configures a Reducer.
type ReducerOptions struct {
	// Workers is the size of the worker pool. Zero uses GOMAXPROCS.
	Workers int
	// ChunkSize is the number of pixels per task. Zero uses DefaultChunkSize.
	ChunkSize int
}

// Reducer folds a pixel sequence into Buckets on a pool of workers.
//
// The sequence is cut into fixed-size chunks in arrival order. Each chunk is
// folded into a private Buckets map and the partial maps are merged in chunk
// order, so the result depends on ChunkSize but never on the worker count or
// on scheduling.
type Reducer struct {
	assigner  Assigner
	workers   int
	chunkSize int
}

// NewReducer creates a Reducer that partitions pixels with a.
func NewReducer(a Assigner, opts ReducerOptions) *Reducer {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Reducer{
		assigner:  a,
		workers:   workers,
		chunkSize: chunkSize,
	}
}

// Accumulate consumes pixels exactly once and returns the per-slot buckets.
func (r *Reducer) Accumulate(pixels iter.Seq[RGB]) Buckets {
	buckets, _ := r.AccumulateStats(pixels)
	return buckets
}

// AccumulateStats is Accumulate that also reports pass statistics.
func (r *Reducer) AccumulateStats(pixels iter.Seq[RGB]) (Buckets, Stats) {
	return r.reduce(r.chunks(pixels))
}

// AccumulateSlice accumulates an in-memory pixel slice. It produces the same
// chunks, and therefore the same result, as Accumulate over the same pixels.
func (r *Reducer) AccumulateSlice(pixels []RGB) Buckets {
	buckets, _ := r.reduce(slices.Values(lo.Chunk(pixels, r.chunkSize)))
	return buckets
}

// chunks cuts a pixel sequence into slices of r.chunkSize.
func (r *Reducer) chunks(pixels iter.Seq[RGB]) iter.Seq[[]RGB] {
	return func(yield func([]RGB) bool) {
		buf := make([]RGB, 0, r.chunkSize)
		for px := range pixels {
			buf = append(buf, px)
			if len(buf) == r.chunkSize {
				if !yield(buf) {
					return
				}
				buf = make([]RGB, 0, r.chunkSize)
			}
		}
		if len(buf) > 0 {
			yield(buf)
		}
	}
}

type task struct {
	seq    int
	pixels []RGB
}

type partial struct {
	seq     int
	buckets Buckets
	pixels  int
	dropped int
}

// reduce fans chunks out to the worker pool and merges the partial results
// in chunk order.
func (r *Reducer) reduce(chunks iter.Seq[[]RGB]) (Buckets, Stats) {
	tasks := make(chan task, r.workers)
	results := make(chan partial, r.workers)

	var wg sync.WaitGroup
	for range r.workers {
		wg.Go(func() {
			for t := range tasks {
				results <- r.fold(t)
			}
		})
	}

	collected := make(chan []partial, 1)
	go func() {
		var parts []partial
		for p := range results {
			parts = append(parts, p)
		}
		collected <- parts
	}()

	seq := 0
	for c := range chunks {
		tasks <- task{seq: seq, pixels: c}
		seq++
	}
	close(tasks)
	wg.Wait()
	close(results)

	parts := <-collected
	slices.SortFunc(parts, func(a, b partial) int {
		return cmp.Compare(a.seq, b.seq)
	})

	total := Buckets{}
	stats := Stats{Chunks: len(parts)}
	for _, p := range parts {
		total = total.Merge(p.buckets)
		stats.Pixels += p.pixels
		stats.Dropped += p.dropped
	}
	return total, stats
}

// fold accumulates one chunk into a fresh Buckets map.
func (r *Reducer) fold(t task) partial {
	out := partial{seq: t.seq, buckets: make(Buckets), pixels: len(t.pixels)}
	for _, px := range t.pixels {
		c := FromRGB(px)
		if c.IsNaN() {
			out.dropped++
			continue
		}
		slot, ok := r.assigner.Assign(c)
		if !ok {
			out.dropped++
			continue
		}
		b := out.buckets[slot]
		b.Add(c)
		out.buckets[slot] = b
	}
	return out
}
