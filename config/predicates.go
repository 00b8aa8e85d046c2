package config

import (
	"strings"

	"github.com/alexkapoulas/BiomePruner/biome"
)

// Predicates builds the biome.Predicates the smoother queries at runtime
// from this Config's identifier lists, so the string-list-to-Set
// construction happens once rather than on every lookup.
func (c Config) Predicates() biome.Predicates {
	return biome.Predicates{
		Preserved:             biome.NewSet(c.PreservedBiomes),
		Cave:                  biome.NewSet(c.CaveBiomes),
		ExcludedAsReplacement: biome.NewSet(c.ExcludedAsReplacement),
		PreserveVillageClass:  c.PreserveVillageBiomes,
	}
}

// IsOceanMonument reports whether id's key names an ocean biome and the
// host-supplied StructureHint confirms a monument occupies the column. With
// PreserveOceanMonuments off, with no hint wired, or with a non-ocean id,
// this is always false.
func (c Config) IsOceanMonument(id biome.ID, bx, bz int32) bool {
	if !c.PreserveOceanMonuments || c.StructureHint == nil {
		return false
	}
	if !strings.Contains(id.Key(), "ocean") {
		return false
	}
	return c.StructureHint(bx, bz)
}
