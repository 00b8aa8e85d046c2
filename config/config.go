// Package config holds the tunables that govern the smoothing engine:
// the micro-biome size threshold, the preserved/excluded biome sets, the
// cache memory and region-count bounds, and the debug/telemetry toggles.
package config

import "fmt"

// StructureHint lets the host report whether a structure of interest
// (an ocean monument, for the PreserveOceanMonuments policy) occupies the
// given column. A nil hint is treated as always-false.
type StructureHint func(bx, bz int32) bool

// Config is the engine's full tunable set. All fields are read-only after
// construction; callers that need to change a value build a new Config.
type Config struct {
	Enabled bool

	// MicroBiomeThreshold is the maximum connected-component size (in
	// columns) that is still eligible for replacement.
	MicroBiomeThreshold int

	Debug             bool
	DebugMessages     bool
	PerformanceLogging bool

	PreservedBiomes       []string
	ExcludedAsReplacement []string
	CaveBiomes            []string

	PreserveOceanMonuments bool
	PreserveVillageBiomes  bool
	StructureHint          StructureHint

	MaxCacheMemoryMB int
	MaxActiveRegions int

	GridSpacing              int
	CacheInterpolatedHeights bool
	UseBicubicInterpolation  bool
	OpportunisticBatch       bool

	EnableWorkStealing bool

	// FloodFillTimeoutMS bounds how long, in milliseconds, a caller waits
	// for a dispatched flood fill (its own or someone else's) to complete.
	FloodFillTimeoutMS int
}

// Default returns the engine's out-of-the-box configuration.
func Default() Config {
	return Config{
		Enabled:             true,
		MicroBiomeThreshold: 50,
		Debug:               false,
		DebugMessages:       false,
		PerformanceLogging:  false,

		PreservedBiomes: []string{
			"minecraft:mushroom_fields",
			"minecraft:ice_spikes",
			"minecraft:flower_forest",
			"minecraft:bamboo_jungle",
		},
		ExcludedAsReplacement: []string{
			"minecraft:river",
			"minecraft:frozen_river",
			"minecraft:warm_ocean",
			"minecraft:cold_ocean",
		},
		CaveBiomes: []string{
			"minecraft:deep_dark",
			"minecraft:dripstone_caves",
			"minecraft:lush_caves",
		},

		PreserveOceanMonuments: true,
		PreserveVillageBiomes:  true,
		StructureHint:          nil,

		MaxCacheMemoryMB: 512,
		MaxActiveRegions: 100,

		GridSpacing:              16,
		CacheInterpolatedHeights: true,
		UseBicubicInterpolation:  false,
		OpportunisticBatch:       true,

		EnableWorkStealing: false,

		FloodFillTimeoutMS: 5000,
	}
}

// Validate checks every range-bounded field against its configured limits
// and reports every violation joined together, rather than stopping at the
// first one. A caller validating a config file wants the whole list at
// once.
func (c Config) Validate() error {
	var errs []error
	rangeCheck := func(name string, v, lo, hi int) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Errorf("%s: %d out of range [%d, %d]", name, v, lo, hi))
		}
	}

	rangeCheck("microBiomeThreshold", c.MicroBiomeThreshold, 10, 1000)
	rangeCheck("maxCacheMemoryMB", c.MaxCacheMemoryMB, 64, 4096)
	rangeCheck("maxActiveRegions", c.MaxActiveRegions, 10, 1000)
	rangeCheck("gridSpacing", c.GridSpacing, 4, 64)
	if c.FloodFillTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("floodFillTimeoutMS: %d must be positive", c.FloodFillTimeoutMS))
	}

	return joinErrors(errs)
}
