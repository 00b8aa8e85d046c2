package region

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexkapoulas/BiomePruner/biome"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// spatialGridSizesAscending drives the choice of which single grid size a
// spatial-reuse entry is written at: the smallest size whose half-width
// still exceeds the fill's covering radius.
var spatialGridSizesAscending = []int32{32, 64, 128}

// spatialGridSizesDescending drives the read-side probe order: a big,
// already-resolved area should short-circuit before the finer grids are
// even consulted.
var spatialGridSizesDescending = []int32{128, 64, 32}

// Cache is the engine's layered memo: per-column surface results, a
// vanilla-vs-surface mismatch memo, large-area anchor markers, and a
// grid-aligned spatial-reuse cache, all partitioned into 512x512 regions and
// evicted LRU once a memory or region-count bound is exceeded.
type Cache struct {
	log *zap.Logger

	maxMemoryBytes   int64
	maxActiveRegions int

	mu      sync.RWMutex
	regions map[RegionKey]*Region
	nodes   map[RegionKey]*lruNode
	lru     *lruList

	regionLocks   *stripedLocks
	positionLocks *stripedLocks

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns an empty Cache bounded by maxMemoryMB and maxActiveRegions.
func New(log *zap.Logger, maxMemoryMB, maxActiveRegions int) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		log:              log,
		maxMemoryBytes:   int64(maxMemoryMB) * 1024 * 1024,
		maxActiveRegions: maxActiveRegions,
		regions:          make(map[RegionKey]*Region),
		nodes:            make(map[RegionKey]*lruNode),
		lru:              newLRUList(),
		regionLocks:      newStripedLocks(256),
		positionLocks:    newStripedLocks(4096),
	}
}

func (c *Cache) regionFor(bx, bz int32) *Region {
	key := KeyOf(bx, bz)

	c.mu.RLock()
	r, ok := c.regions[key]
	c.mu.RUnlock()
	if ok {
		c.touch(key)
		return r
	}

	unlock := c.regionLocks.Lock(fmt.Sprintf("%d:%d", key.RX, key.RZ))
	defer unlock()

	c.mu.Lock()
	r, ok = c.regions[key]
	if !ok {
		r = newRegion(key)
		c.regions[key] = r
		c.nodes[key] = c.lru.pushFront(key)
	}
	c.mu.Unlock()

	c.touch(key)
	c.evictIfNeeded()
	return r
}

func (c *Cache) touch(key RegionKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.nodes[key]; ok {
		c.lru.moveToFront(n)
	}
	if r, ok := c.regions[key]; ok {
		r.touch(time.Now())
	}
}

// positionLock stripes on the column alone (bx, bz), not height or biome:
// it exists to serialize the compute-and-cache path for one column so the
// mismatch and surface memos are populated at most once per column,
// regardless of how many distinct (y, vanilla) queries land on it
// concurrently.
func (c *Cache) positionLock(x, z int32) func() {
	return c.positionLocks.Lock(fmt.Sprintf("%d:%d", x, z))
}

// WithPositionLock runs fn while holding the striped lock for column
// (x, z), giving callers a critical section for the check-then-act sequence
// around one column's compute path without a single cache-wide lock
// serializing unrelated columns. This is the engine's point of determinism.
func (c *Cache) WithPositionLock(x, z int32, fn func()) {
	unlock := c.positionLock(x, z)
	defer unlock()
	fn()
}

// GetSurface returns the cached height-independent surface biome for
// column (bx, bz), if present.
func (c *Cache) GetSurface(bx, bz int32) (biome.ID, bool) {
	r := c.regionFor(bx, bz)
	c.mu.RLock()
	id, ok := r.surface[ColumnKey{X: bx, Z: bz}]
	c.mu.RUnlock()
	c.recordLookup(ok)
	return id, ok
}

// PutSurface caches the surface biome for column (bx, bz).
func (c *Cache) PutSurface(bx, bz int32, id biome.ID) {
	r := c.regionFor(bx, bz)
	c.mu.Lock()
	r.surface[ColumnKey{X: bx, Z: bz}] = id
	c.mu.Unlock()
}

// GetMismatch returns the cached vanilla-vs-surface mismatch flag for
// column (bx, bz) and vanilla biome id, if present.
func (c *Cache) GetMismatch(bx, bz int32, id biome.ID) (bool, bool) {
	r := c.regionFor(bx, bz)
	c.mu.RLock()
	v, ok := r.mismatch[BiomeColumnKeyOf(bx, bz, id)]
	c.mu.RUnlock()
	c.recordLookup(ok)
	return v, ok
}

// PutMismatch caches whether vanilla biome id differs from the computed
// surface biome at column (bx, bz).
func (c *Cache) PutMismatch(bx, bz int32, id biome.ID, mismatched bool) {
	r := c.regionFor(bx, bz)
	c.mu.Lock()
	r.mismatch[BiomeColumnKeyOf(bx, bz, id)] = mismatched
	c.mu.Unlock()
}

// GetResult returns the cached final (post-smoothing) biome for point
// (x, y, z), if present.
func (c *Cache) GetResult(x, y, z int32) (biome.ID, bool) {
	r := c.regionFor(x, z)
	c.mu.RLock()
	id, ok := r.results[ResultKey{X: x, Y: y, Z: z}]
	c.mu.RUnlock()
	c.recordLookup(ok)
	return id, ok
}

// PutResult caches the final biome for point (x, y, z).
func (c *Cache) PutResult(x, y, z int32, id biome.ID) {
	r := c.regionFor(x, z)
	c.mu.Lock()
	r.results[ResultKey{X: x, Y: y, Z: z}] = id
	c.mu.Unlock()
}

// MarkLargeArea records (bx, bz) as the center of a connected region of
// biome id already known to be too large to ever qualify as a micro-biome,
// so future queries within its Chebyshev coverage radius can skip
// flood-fill dispatch entirely. A point already covered by an existing
// anchor for id is not recorded again.
func (c *Cache) MarkLargeArea(bx, bz int32, id biome.ID) {
	r := c.regionFor(bx, bz)
	key := id.Key()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, anchor := range r.large[key] {
		if chebyshev(bx, bz, anchor.X, anchor.Z) <= largeAreaRadius {
			return
		}
	}
	r.large[key] = append(r.large[key], ColumnKey{X: bx, Z: bz})
}

// IsKnownLargeArea reports whether column (bx, bz) falls within the
// Chebyshev coverage radius of any anchor previously marked for biome id.
func (c *Cache) IsKnownLargeArea(bx, bz int32, id biome.ID) bool {
	r := c.regionFor(bx, bz)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, anchor := range r.large[id.Key()] {
		if chebyshev(bx, bz, anchor.X, anchor.Z) <= largeAreaRadius {
			c.recordLookup(true)
			return true
		}
	}
	c.recordLookup(false)
	return false
}

// GetSpatial checks the spatial-reuse cache at every configured grid size,
// largest first, returning the first entry that is still fresh and whose
// covering radius actually reaches (bx, bz).
func (c *Cache) GetSpatial(bx, bz int32, target biome.ID) (biome.ID, bool) {
	r := c.regionFor(bx, bz)
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, size := range spatialGridSizesDescending {
		e, ok := r.spatial[GridKeyOf(bx, bz, size, target)]
		if !ok || !e.fresh(now) {
			continue
		}
		if e.covers(bx, bz) {
			c.recordLookup(true)
			return e.result, true
		}
	}
	c.recordLookup(false)
	return biome.ID{}, false
}

// PutSpatial records result as the spatial-reuse outcome for target biome
// around (bx, bz), covering a Chebyshev ball of radius. It is written once,
// at the smallest grid size whose half-width still exceeds radius, so a
// later query's Chebyshev-distance check against the cell's logical center
// is meaningful rather than merely checking floored-grid-cell equality.
func (c *Cache) PutSpatial(bx, bz int32, target, result biome.ID, radius int32) {
	size := spatialGridSizeFor(radius)
	key := GridKeyOf(bx, bz, size, target)
	cx, cz := key.center()

	r := c.regionFor(bx, bz)
	c.mu.Lock()
	defer c.mu.Unlock()
	r.spatial[key] = spatialEntry{result: result, at: time.Now(), radius: radius, centerX: cx, centerZ: cz}
}

// spatialGridSizeFor returns the smallest configured grid size G such that
// radius < G/2, falling back to the largest size if radius exceeds every
// half-width (a coarse bailout entry, for instance, is stored at radius 128
// itself).
func spatialGridSizeFor(radius int32) int32 {
	for _, g := range spatialGridSizesAscending {
		if radius < g/2 {
			return g
		}
	}
	return spatialGridSizesAscending[len(spatialGridSizesAscending)-1]
}

func (c *Cache) recordLookup(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

// evictIfNeeded drops least-recently-used regions until both the memory and
// region-count bounds are satisfied, whichever bound is tighter at the
// moment of eviction.
func (c *Cache) evictIfNeeded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.regions) > 1 && (c.totalBytes() > c.maxMemoryBytes || len(c.regions) > c.maxActiveRegions) {
		oldest := c.lru.back()
		if oldest == nil {
			return
		}
		delete(c.regions, oldest.key)
		delete(c.nodes, oldest.key)
		c.lru.remove(oldest)
	}
}

func (c *Cache) totalBytes() int64 {
	var n int64
	for _, r := range c.regions {
		n += r.sizeBytes()
	}
	return n
}

// Stats reports cache hit/miss counters and the current resident footprint.
type Stats struct {
	Hits, Misses   int64
	ActiveRegions  int
	EstimatedBytes int64
}

func (c *Cache) CacheStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:           c.hits.Load(),
		Misses:         c.misses.Load(),
		ActiveRegions:  len(c.regions),
		EstimatedBytes: c.totalBytes(),
	}
}

// ClearAll drops every cached layer in every active region, applying each
// region's own clear ordering.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.regions {
		r.clear()
	}
}

// Close tears down the cache, joining any per-region teardown faults rather
// than stopping at the first one.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for key, r := range c.regions {
		if err := c.closeRegion(r); err != nil {
			errs = append(errs, fmt.Errorf("region %v: %w", key, err))
		}
	}
	c.regions = make(map[RegionKey]*Region)
	c.nodes = make(map[RegionKey]*lruNode)
	c.lru = newLRUList()
	return multierr.Combine(errs...)
}

// closeRegion exists as a seam for per-region teardown; today clearing is
// infallible, but Close's error-joining shape stays ready for a teardown
// step that can fail (e.g. flushing a region's stats to an external sink).
func (c *Cache) closeRegion(r *Region) error {
	r.clear()
	return nil
}
