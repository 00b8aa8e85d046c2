package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/alexkapoulas/BiomePruner/biome"
	"github.com/alexkapoulas/BiomePruner/config"
	"github.com/alexkapoulas/BiomePruner/smoother"
	"go.uber.org/zap"
)

// inspectReport is the JSON shape printed by the inspect subcommand,
// flattening smoother.Analysis into plain strings for readability.
type inspectReport struct {
	X         int32  `json:"x"`
	Y         int32  `json:"y"`
	Z         int32  `json:"z"`
	Vanilla   string `json:"vanilla"`
	Surface   string `json:"surface"`
	Result    string `json:"result"`
	Replaced  bool   `json:"replaced"`
	Preserved bool   `json:"preserved"`
	Cave      bool   `json:"cave"`
	KnownLarge bool  `json:"known_large"`
	SpatialReuse bool `json:"spatial_reuse"`
}

func runInspect(logger *zap.Logger, args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	x := fs.Int("x", 0, "block x coordinate to inspect")
	y := fs.Int("y", 64, "block y coordinate to inspect")
	z := fs.Int("z", 0, "block z coordinate to inspect")
	vanillaKey := fs.String("biome", "minecraft:anomaly_patch", "vanilla biome id reported at the coordinate")
	threshold := fs.Int("threshold", 50, "micro biome threshold passed to the engine config")
	islandSize := fs.Int("island-size", 6, "side length in blocks of the synthetic anomaly island")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	cfg.MicroBiomeThreshold = *threshold
	e := smoother.New(cfg, nil, nil, logger)

	world := checkerWorld{
		background:    biome.NewID("minecraft:plains"),
		anomaly:       biome.NewID(*vanillaKey),
		largeRegion:   biome.NewID("minecraft:desert"),
		islandSize:    int32(*islandSize),
		islandSpacing: int32(*islandSize) * 10,
		largeRegionFrom: 1 << 30,
		height:        64,
	}

	vanilla := biome.NewID(*vanillaKey)
	analysis, err := e.Analyze(context.Background(), int32(*x), int32(*y), int32(*z), vanilla, world, world)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze failed:", err)
		return 1
	}

	report := inspectReport{
		X:            int32(*x),
		Y:            int32(*y),
		Z:            int32(*z),
		Vanilla:      analysis.Vanilla.String(),
		Surface:      analysis.Surface.String(),
		Result:       analysis.Result.String(),
		Replaced:     analysis.Replaced,
		Preserved:    analysis.Preserved,
		Cave:         analysis.Cave,
		KnownLarge:   analysis.KnownLarge,
		SpatialReuse: analysis.SpatialReuse,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintln(os.Stderr, "failed to encode report:", err)
		return 1
	}
	return 0
}
