package heightmap

import (
	"math"
	"sync/atomic"
)

// chunkGrid holds the sample points for one chunk, spaced gridSpacing blocks
// apart, plus the chunk's trailing edge so interpolation never needs to
// reach into a neighboring chunk's grid. Each slot is marked published
// exactly once via compare-and-swap on calculated; once the bit is set,
// readers take the stored height without calling the sampler.
type chunkGrid struct {
	base        chunkKey
	spacing     int32
	pointsPerSide int32
	heights     []atomic.Uint64 // math.Float64bits, valid once calculated[i] is true
	calculated  []atomic.Bool
}

func newChunkGrid(base chunkKey, spacing int32) *chunkGrid {
	n := chunkSize/spacing + 1
	return &chunkGrid{
		base:          base,
		spacing:       spacing,
		pointsPerSide: n,
		heights:       make([]atomic.Uint64, n*n),
		calculated:    make([]atomic.Bool, n*n),
	}
}

func (g *chunkGrid) index(ix, iz int32) int {
	return int(ix*g.pointsPerSide + iz)
}

// sampleAt returns the height at grid index (ix, iz), computing it via fn on
// first access. Concurrent callers racing on the same never-yet-computed
// slot all invoke fn and each store their value before the CAS, so the slot
// holds whichever value was stored last; CAS losers return that stored
// value. The racing values agree whenever fn is deterministic.
func (g *chunkGrid) sampleAt(ix, iz int32, fn func(bx, bz int32) float64) float64 {
	idx := g.index(ix, iz)
	if g.calculated[idx].Load() {
		return math.Float64frombits(g.heights[idx].Load())
	}
	bx := g.base.cx*chunkSize + ix*g.spacing
	bz := g.base.cz*chunkSize + iz*g.spacing
	h := fn(bx, bz)
	g.heights[idx].Store(math.Float64bits(h))
	if !g.calculated[idx].CompareAndSwap(false, true) {
		// Someone else published first; defer to their value for determinism.
		return math.Float64frombits(g.heights[idx].Load())
	}
	return h
}

// interpolate returns the bilinear-interpolated height at (bx, bz) using the
// four surrounding grid points, computing any not-yet-sampled corner via fn.
func (g *chunkGrid) interpolate(bx, bz int32, fn func(bx, bz int32) float64) float64 {
	localX := bx - g.base.cx*chunkSize
	localZ := bz - g.base.cz*chunkSize

	ix0 := localX / g.spacing
	iz0 := localZ / g.spacing
	ix1 := ix0 + 1
	iz1 := iz0 + 1
	if ix1 >= g.pointsPerSide {
		ix1 = g.pointsPerSide - 1
	}
	if iz1 >= g.pointsPerSide {
		iz1 = g.pointsPerSide - 1
	}

	fx := float64(localX-ix0*g.spacing) / float64(g.spacing)
	fz := float64(localZ-iz0*g.spacing) / float64(g.spacing)

	h00 := g.sampleAt(ix0, iz0, fn)
	h10 := g.sampleAt(ix1, iz0, fn)
	h01 := g.sampleAt(ix0, iz1, fn)
	h11 := g.sampleAt(ix1, iz1, fn)

	h0 := h00*(1-fx) + h10*fx
	h1 := h01*(1-fx) + h11*fx
	return h0*(1-fz) + h1*fz
}

// pointCount reports how many sample slots are currently populated, used by
// Cache.CacheStats and the LRU eviction bound.
func (g *chunkGrid) pointCount() int {
	n := 0
	for i := range g.calculated {
		if g.calculated[i].Load() {
			n++
		}
	}
	return n
}
