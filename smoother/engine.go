// Package smoother wires the config, cache, heightmap, and flood-fill
// layers into the engine's single external operation: taking a host's raw
// noise-biome result and deciding whether it belongs to a micro-biome that
// should be smoothed away.
package smoother

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexkapoulas/BiomePruner/biome"
	"github.com/alexkapoulas/BiomePruner/config"
	"github.com/alexkapoulas/BiomePruner/flood"
	"github.com/alexkapoulas/BiomePruner/heightmap"
	"github.com/alexkapoulas/BiomePruner/region"
	"github.com/alexkapoulas/BiomePruner/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sampler resolves the biome a host would report at a biome-grid coordinate
// (block coordinates shifted right by 2), independent of the engine's own
// smoothing.
type Sampler interface {
	Sample(ctx context.Context, nx, ny, nz int32) (biome.ID, error)
}

// SurfaceHeight resolves the host's terrain surface height at a column.
type SurfaceHeight interface {
	SurfaceHeight(ctx context.Context, bx, bz int32) (int32, error)
}

// ConfigView is the engine's tunable configuration.
type ConfigView = config.Config

// TelemetrySink receives the engine's debug and performance events.
type TelemetrySink = telemetry.Sink

// maxSurfaceSamples and surfaceSampleStep bound the upward climb
// computeSurfaceBiome performs past the starting height to skip underground
// biomes: 20 samples at an 8-block step, capped at a Y=320 world ceiling.
const (
	maxSurfaceSamples = 20
	surfaceSampleStep = 8
	worldHeightLimit  = 320
)

// Engine is the smoothing engine. One Engine is meant to be constructed once
// per host world and reused across every query; it is safe for concurrent
// use.
type Engine struct {
	cfg        config.Config
	predicates biome.Predicates
	registry   *biome.Registry

	regions    *region.Cache
	heights    *heightmap.Cache
	dispatcher *flood.Dispatcher

	sink telemetry.Sink
	log  *zap.Logger

	faultLimiter *telemetry.FaultLimiter
}

// New builds an Engine from cfg, wiring a registry (may be nil to skip
// registry validation), a telemetry sink (may be nil for a no-op sink), and
// a logger (may be nil for a no-op logger).
func New(cfg config.Config, registry *biome.Registry, sink telemetry.Sink, log *zap.Logger) *Engine {
	if sink == nil {
		sink = telemetry.NopSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:          cfg,
		predicates:   cfg.Predicates(),
		registry:     registry,
		regions:      region.New(log, cfg.MaxCacheMemoryMB, cfg.MaxActiveRegions),
		heights:      heightmap.New(int32(cfg.GridSpacing), maxHeightPoints(cfg)),
		dispatcher:   flood.NewDispatcher(),
		sink:         sink,
		log:          log,
		faultLimiter: telemetry.NewFaultLimiter(rate.Every(time.Second), 1),
	}
}

func maxHeightPoints(cfg config.Config) int {
	// The heightmap is bounded by a flat point count rather than by memory;
	// scale it loosely with the region memory budget so a larger memory
	// allowance also buys a larger heightmap.
	return cfg.MaxCacheMemoryMB * 200
}

// GetModifiedBiome is the engine's single entry point: given the vanilla
// biome a host's noise source reports at (bx, by, bz), it returns either
// that same biome or the dominant surrounding biome the engine has decided
// should replace it, having determined that the vanilla biome forms a
// micro-region too small to be worth preserving.
//
// It never panics and never returns an error: every internal fault falls
// back to vanilla, logged at most once per fault class per interval.
func (e *Engine) GetModifiedBiome(ctx context.Context, bx, by, bz int32, vanilla biome.ID, sampler Sampler, surfaceHeight SurfaceHeight) biome.ID {
	if !e.cfg.Enabled {
		return vanilla
	}
	if isReentrant(ctx) {
		return vanilla
	}
	if !biome.Valid(vanilla, e.registry) {
		e.fault(ErrValidation, "validation", bx, by, bz)
		return vanilla
	}
	if e.predicates.ShouldPreserve(vanilla) {
		return vanilla
	}
	if e.cfg.IsOceanMonument(vanilla, bx, bz) {
		return vanilla
	}
	if e.predicates.IsCave(vanilla) {
		return vanilla
	}

	guarded := withReentryGuard(ctx)

	var result biome.ID
	var err error
	e.regions.WithPositionLock(bx, bz, func() {
		result, err = e.resolve(guarded, bx, by, bz, vanilla, sampler, surfaceHeight)
	})
	if err != nil {
		e.faultFromErr(err, bx, by, bz)
		return vanilla
	}
	return result
}

// resolve runs the full decision procedure for one query, under the
// engine's per-column position lock: result memo, mismatch memo, surface
// projection with the vanilla-vs-surface identity check, spatial reuse,
// known-large-area short-circuit, and finally a dispatched (and possibly
// shared) flood fill.
func (e *Engine) resolve(ctx context.Context, bx, by, bz int32, vanilla biome.ID, sampler Sampler, surfaceHeight SurfaceHeight) (biome.ID, error) {
	if cached, ok := e.regions.GetResult(bx, by, bz); ok {
		return cached, nil
	}
	if mismatched, ok := e.regions.GetMismatch(bx, bz, vanilla); ok && mismatched {
		e.regions.PutResult(bx, by, bz, vanilla)
		return vanilla, nil
	}

	surfaceID, err := e.computeSurfaceBiome(ctx, bx, bz, sampler, surfaceHeight, nil)
	if err != nil {
		return biome.ID{}, err
	}
	e.emitDebug("surface_resolved", bx, by, bz, surfaceID.String())

	mismatched := vanilla != surfaceID
	e.regions.PutMismatch(bx, bz, vanilla, mismatched)
	if mismatched {
		e.regions.PutResult(bx, by, bz, vanilla)
		return vanilla, nil
	}

	if spatial, ok := e.regions.GetSpatial(bx, bz, surfaceID); ok {
		e.regions.PutResult(bx, by, bz, spatial)
		return spatial, nil
	}
	if e.regions.IsKnownLargeArea(bx, bz, surfaceID) {
		e.regions.PutResult(bx, by, bz, vanilla)
		return vanilla, nil
	}

	fingerprint := flood.Fingerprint(bx, bz, surfaceID)
	task, isProducer := e.dispatcher.Acquire(fingerprint)

	if isProducer {
		e.runFloodFill(ctx, task, bx, bz, surfaceID, sampler, surfaceHeight)
		e.reportPerformance()
	}

	deadline := time.Duration(e.cfg.FloodFillTimeoutMS) * time.Millisecond
	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	res, err := task.Await(waitCtx)
	if err != nil {
		return biome.ID{}, fmt.Errorf("%w: %v", ErrDispatcherTimeout, err)
	}

	var result biome.ID
	if res.BailedOut {
		e.regions.MarkLargeArea(bx, bz, surfaceID)
		e.regions.PutSpatial(bx, bz, surfaceID, vanilla, largeAreaSpatialRadius)
		result = vanilla
	} else {
		radius := int32(math.Sqrt(float64(res.VisitedSize)))
		e.regions.PutSpatial(bx, bz, surfaceID, res.Replacement, radius)
		result = res.Replacement
	}
	e.regions.PutResult(bx, by, bz, result)
	return result, nil
}

// largeAreaSpatialRadius is the covering radius stored for the coarse
// spatial-reuse entry written when a flood fill bails out on a large
// connected region, wide enough to absorb a cluster of nearby queries into
// the known-large-area anchor without each one re-dispatching a fill.
const largeAreaSpatialRadius int32 = 128

// runFloodFill performs the bounded BFS and dominant-neighbor vote for
// fingerprint's (x, z, target) triple, walking the fill in biome-grid
// coordinates, and publishes the outcome to task. Called only by the caller
// that won the dispatcher race for fingerprint.
func (e *Engine) runFloodFill(ctx context.Context, task *flood.Task, bx, bz int32, target biome.ID, sampler Sampler, surfaceHeight SurfaceHeight) {
	e.emitDebug("flood_fill_start", bx, 0, bz, target.String())

	var batch *heightmap.Batch
	if e.cfg.OpportunisticBatch {
		batch = e.heights.NewBatch()
	}

	resolve := func(ctx context.Context, x, z int32) (biome.ID, error) {
		// x and z are biome-grid coordinates; convert back to block
		// coordinates before running the same surface computation every
		// other caller uses.
		return e.computeSurfaceBiome(ctx, x<<2, z<<2, sampler, surfaceHeight, batch)
	}

	threshold := e.cfg.MicroBiomeThreshold / 16
	start := flood.ColumnPos{X: bx >> 2, Z: bz >> 2}

	bfsResult, err := flood.Run(ctx, start, target, threshold, resolve)
	if err != nil {
		task.Complete(flood.Result{}, err)
		return
	}

	if bfsResult.BailedOut {
		task.Complete(flood.Result{Replacement: target, VisitedSize: len(bfsResult.Visited), BailedOut: true}, nil)
		return
	}

	winner := flood.Vote(bfsResult.Frontier, target, target, e.predicates.CanUseAsReplacement)
	task.Complete(flood.Result{Replacement: winner, VisitedSize: len(bfsResult.Visited), BailedOut: false}, nil)
}

// computeSurfaceBiome climbs upward from the column's terrain height,
// skipping configured cave biomes, until it finds a surface-eligible biome
// or exhausts the sample budget. The result is cached per column since it
// is height-independent. bx and bz are block coordinates; the sampler
// itself is queried in biome-grid coordinates. batch, if non-nil, is a
// caller-owned heightmap batch consulted in front of the shared heightmap
// cache, for a flood fill's tight loop of height lookups over the same tile.
func (e *Engine) computeSurfaceBiome(ctx context.Context, bx, bz int32, sampler Sampler, surfaceHeight SurfaceHeight, batch *heightmap.Batch) (biome.ID, error) {
	if cached, ok := e.regions.GetSurface(bx, bz); ok {
		return cached, nil
	}

	rawHeight := func(ctx context.Context, x, z int32) (float64, error) {
		h, err := surfaceHeight.SurfaceHeight(ctx, x, z)
		return float64(h), err
	}

	var hf float64
	var err error
	switch {
	case batch != nil:
		hf, err = batch.Height(ctx, bx, bz, rawHeight)
	case e.cfg.CacheInterpolatedHeights:
		hf, err = e.heights.Height(ctx, bx, bz, rawHeight)
	default:
		hf, err = rawHeight(ctx, bx, bz)
	}
	if err != nil {
		return biome.ID{}, fmt.Errorf("%w: %v", ErrHeight, err)
	}

	y := int32(hf)
	var last biome.ID
	for i := 0; i < maxSurfaceSamples && y <= worldHeightLimit; i++ {
		b, err := sampler.Sample(ctx, bx>>2, y>>2, bz>>2)
		if err != nil {
			return biome.ID{}, fmt.Errorf("%w: %v", ErrSampler, err)
		}
		last = b
		if !e.predicates.IsCave(b) {
			e.regions.PutSurface(bx, bz, b)
			return b, nil
		}
		y += surfaceSampleStep
	}

	e.regions.PutSurface(bx, bz, last)
	return last, nil
}

func (e *Engine) fault(err error, class string, bx, by, bz int32) {
	if !e.faultLimiter.Allow(class) {
		return
	}
	e.log.Warn("biome smoothing fault", zap.Error(err), zap.Int32("x", bx), zap.Int32("y", by), zap.Int32("z", bz))
	e.sink.Debug(telemetry.NewDebugEvent(class, bx, by, bz, err.Error(), time.Now()))
}

func (e *Engine) faultFromErr(err error, bx, by, bz int32) {
	class := "unknown"
	switch {
	case errors.Is(err, ErrSampler):
		class = "sampler"
	case errors.Is(err, ErrHeight):
		class = "height"
	case errors.Is(err, ErrDispatcherTimeout):
		class = "dispatcher_timeout"
	case errors.Is(err, ErrCacheValidity):
		class = "cache_validity"
	}
	e.fault(err, class, bx, by, bz)
}

// reportPerformance emits a cache-hit-rate snapshot through the telemetry
// sink, gated on Config.PerformanceLogging so the statistics-collection
// cost is only paid when that flag is on.
func (e *Engine) reportPerformance() {
	if !e.cfg.PerformanceLogging {
		return
	}
	rs := e.regions.CacheStats()
	total := rs.Hits + rs.Misses
	rate := 0.0
	if total > 0 {
		rate = float64(rs.Hits) / float64(total)
	}
	e.sink.Performance(telemetry.NewPerformanceEvent("region_cache_hit_rate", rate, time.Now()))
}

func (e *Engine) emitDebug(metric string, bx, by, bz int32, message string) {
	if !e.cfg.DebugMessages {
		return
	}
	e.sink.Debug(telemetry.NewDebugEvent(metric, bx, by, bz, message, time.Now()))
}

// CacheStatistics composes the region and heightmap cache statistics into a
// single human-readable summary.
func (e *Engine) CacheStatistics() string {
	rs := e.regions.CacheStats()
	hs := e.heights.CacheStats()
	return fmt.Sprintf(
		"regions: hits=%d misses=%d active=%d bytes=%d | heightmap: hits=%d misses=%d chunks=%d points=%d",
		rs.Hits, rs.Misses, rs.ActiveRegions, rs.EstimatedBytes,
		hs.Hits, hs.Misses, hs.Chunks, hs.SamplePoints,
	)
}

// ClearCaches drops every cached layer, used by host-triggered world/config
// reloads.
func (e *Engine) ClearCaches() {
	e.regions.ClearAll()
	e.heights.Clear()
}

// Close tears down the engine's caches.
func (e *Engine) Close() error {
	return e.regions.Close()
}
