package region

import (
	"time"

	"github.com/alexkapoulas/BiomePruner/biome"
)

// spatialTTL bounds how long a spatial-reuse entry stays eligible for reuse
// before it must be recomputed: long enough to amortize a flood fill across
// a cluster of nearby queries, short enough that a since-regenerated area
// doesn't go stale.
const spatialTTL = 30 * time.Second

// largeAreaRadius is the Chebyshev radius around a marked large-area anchor
// that a query can fall within and still skip flood-fill dispatch entirely.
const largeAreaRadius int32 = 32

// spatialEntry is one cell of the grid-aligned spatial-reuse cache: a cached
// fill outcome covering every query within radius of (centerX, centerZ).
type spatialEntry struct {
	result           biome.ID
	at               time.Time
	radius           int32
	centerX, centerZ int32
}

func (e spatialEntry) fresh(now time.Time) bool {
	return now.Sub(e.at) < spatialTTL
}

func (e spatialEntry) covers(bx, bz int32) bool {
	return chebyshev(bx, bz, e.centerX, e.centerZ) <= e.radius
}

// Region holds every cache layer for one 512x512 tile: the final modified
// results, the height-independent surface-biome memo, the known-large-area
// anchors (per biome), the vanilla-vs-surface mismatch memo (per column and
// biome), and the grid-aligned spatial-reuse entries at each configured grid
// size (per biome).
type Region struct {
	key RegionKey

	results  map[ResultKey]biome.ID
	surface  map[ColumnKey]biome.ID
	large    map[string][]ColumnKey
	mismatch map[BiomeColumnKey]bool
	spatial  map[GridKey]spatialEntry

	lastAccess time.Time
}

func newRegion(key RegionKey) *Region {
	return &Region{
		key:      key,
		results:  make(map[ResultKey]biome.ID),
		surface:  make(map[ColumnKey]biome.ID),
		large:    make(map[string][]ColumnKey),
		mismatch: make(map[BiomeColumnKey]bool),
		spatial:  make(map[GridKey]spatialEntry),
	}
}

func (r *Region) touch(now time.Time) {
	r.lastAccess = now
}

// bytesPerEntry is a constant-per-entry memory estimate, used by the
// memory-bounded eviction trigger. Coarse accounting, but exact byte
// counting isn't worth the complexity for an eviction heuristic.
const bytesPerEntry = 64

func (r *Region) sizeBytes() int64 {
	return int64(r.entryCount()) * bytesPerEntry
}

func (r *Region) entryCount() int {
	n := len(r.results) + len(r.surface) + len(r.mismatch) + len(r.spatial)
	for _, anchors := range r.large {
		n += len(anchors)
	}
	return n
}

// clear drops every cached layer in the region, in order: spatial first
// (cheapest to recompute), then surface, then large-area anchors, then
// mismatch, then the final results.
func (r *Region) clear() {
	r.spatial = make(map[GridKey]spatialEntry)
	r.surface = make(map[ColumnKey]biome.ID)
	r.large = make(map[string][]ColumnKey)
	r.mismatch = make(map[BiomeColumnKey]bool)
	r.results = make(map[ResultKey]biome.ID)
}
