package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alexkapoulas/BiomePruner/biome"
	"github.com/alexkapoulas/BiomePruner/config"
	"github.com/alexkapoulas/BiomePruner/smoother"
	"go.uber.org/zap"
)

// checkerWorld paints a repeating grid of small "anomaly" islands inside a
// large background biome, the shape of world a flood-fill-heavy benchmark
// wants: plenty of micro-biomes to discover and smooth, plus a large region
// whose fills bail out and leave it unchanged.
type checkerWorld struct {
	background, anomaly, largeRegion biome.ID
	islandSize, islandSpacing        int32
	largeRegionFrom                  int32
	height                           int32
}

func (w checkerWorld) biomeAt(x, z int32) biome.ID {
	if x >= w.largeRegionFrom {
		return w.largeRegion
	}
	lx := mod(x, w.islandSpacing)
	lz := mod(z, w.islandSpacing)
	if lx < w.islandSize && lz < w.islandSize {
		return w.anomaly
	}
	return w.background
}

func mod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func (w checkerWorld) Sample(ctx context.Context, nx, ny, nz int32) (biome.ID, error) {
	// nx and nz are biome-grid coordinates; the world is painted in blocks.
	return w.biomeAt(nx<<2, nz<<2), nil
}

func (w checkerWorld) SurfaceHeight(ctx context.Context, bx, bz int32) (int32, error) {
	return w.height, nil
}

// TimingResult is the JSON summary printed at the end of a bench run.
type TimingResult struct {
	Queries       int           `json:"queries"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	QueriesPerSec float64       `json:"queries_per_sec"`
	Replaced      int           `json:"replaced"`
	CacheStats    string        `json:"cache_stats"`
}

func runBench(logger *zap.Logger, args []string) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	width := fs.Int("width", 2048, "width in blocks of the synthetic world to query")
	islandSize := fs.Int("island-size", 6, "side length in blocks of each anomaly island")
	islandSpacing := fs.Int("island-spacing", 40, "grid spacing in blocks between anomaly islands")
	threshold := fs.Int("threshold", 50, "micro biome threshold passed to the engine config")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := validateBenchFlags(*width, *islandSize, *islandSpacing); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg := config.Default()
	cfg.MicroBiomeThreshold = *threshold
	e := smoother.New(cfg, nil, nil, logger)

	world := checkerWorld{
		background:       biome.NewID("minecraft:plains"),
		anomaly:          biome.NewID("minecraft:anomaly_patch"),
		largeRegion:      biome.NewID("minecraft:desert"),
		islandSize:        int32(*islandSize),
		islandSpacing:     int32(*islandSpacing),
		largeRegionFrom:   int32(*width) * 3 / 4,
		height:            64,
	}

	ctx := context.Background()
	start := time.Now()
	queries := 0
	replaced := 0
	for x := int32(0); x < int32(*width); x++ {
		for z := int32(0); z < int32(*width); z += int32(*islandSpacing) {
			vanilla := world.biomeAt(x, z)
			got := e.GetModifiedBiome(ctx, x, 64, z, vanilla, world, world)
			queries++
			if got != vanilla {
				replaced++
			}
		}
	}
	elapsed := time.Since(start)

	result := TimingResult{
		Queries:       queries,
		Elapsed:       elapsed,
		QueriesPerSec: float64(queries) / elapsed.Seconds(),
		Replaced:      replaced,
		CacheStats:    e.CacheStatistics(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintln(os.Stderr, "failed to encode result:", err)
		return 1
	}
	return 0
}

func validateBenchFlags(width, islandSize, islandSpacing int) error {
	var errs []error
	if width <= 0 {
		errs = append(errs, fmt.Errorf("width must be positive, got %d", width))
	}
	if islandSize <= 0 {
		errs = append(errs, fmt.Errorf("island-size must be positive, got %d", islandSize))
	}
	if islandSpacing <= islandSize {
		errs = append(errs, fmt.Errorf("island-spacing (%d) must exceed island-size (%d)", islandSpacing, islandSize))
	}
	return joinErrors(errs)
}
