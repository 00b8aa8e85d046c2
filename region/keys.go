package region

import "github.com/alexkapoulas/BiomePruner/biome"

// regionSize is the edge length, in blocks, of one region tile: the unit
// the cache evicts at. 512 blocks is large enough that a flood fill rarely
// crosses a boundary.
const regionSize = 512

// RegionKey identifies one 512x512 block tile.
type RegionKey struct {
	RX, RZ int32
}

// KeyOf returns the RegionKey containing block column (bx, bz).
func KeyOf(bx, bz int32) RegionKey {
	return RegionKey{RX: floorDiv(bx, regionSize), RZ: floorDiv(bz, regionSize)}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// chebyshev returns the Chebyshev distance between two columns, the metric
// the spatial-reuse and large-area layers use to decide coverage.
func chebyshev(x1, z1, x2, z2 int32) int32 {
	dx, dz := abs32(x1-x2), abs32(z1-z2)
	if dx > dz {
		return dx
	}
	return dz
}

// ColumnKey identifies a single (x, z) column within a region, independent
// of vertical position and biome. Used by the surface-biome layer, and as
// the anchor-point value the large-area layer stores per biome.
type ColumnKey struct {
	X, Z int32
}

// ResultKey identifies a single sampled point, used by the final-result
// layer, which depends on height.
type ResultKey struct {
	X, Y, Z int32
}

// BiomeColumnKey identifies a column plus the biome being queried there.
// The mismatch memo is keyed on this rather than on the column alone: the
// same column can be asked about different vanilla biomes at different
// heights, and a mismatch recorded for one biome must never answer for
// another.
type BiomeColumnKey struct {
	X, Z  int32
	Biome string
}

// BiomeColumnKeyOf builds a BiomeColumnKey for column (bx, bz) and id.
func BiomeColumnKeyOf(bx, bz int32, id biome.ID) BiomeColumnKey {
	return BiomeColumnKey{X: bx, Z: bz, Biome: id.Key()}
}

// GridKey identifies a coarse spatial-reuse cell at one of the spatial
// cache's grid sizes, for one biome.
type GridKey struct {
	GX, GZ int32
	Size   int32
	Biome  string
}

// GridKeyOf snaps (bx, bz) down to the grid cell of the given size for id.
func GridKeyOf(bx, bz, size int32, id biome.ID) GridKey {
	return GridKey{GX: floorDiv(bx, size), GZ: floorDiv(bz, size), Size: size, Biome: id.Key()}
}

// center returns the block coordinates of k's grid cell's logical center.
func (k GridKey) center() (int32, int32) {
	return k.GX*k.Size + k.Size/2, k.GZ*k.Size + k.Size/2
}
