package smoother

import (
	"context"

	"github.com/alexkapoulas/BiomePruner/biome"
)

// gridSampler is a deterministic synthetic world: every column's biome is
// decided by a caller-supplied painter function, and every column's surface
// height is flat. It stands in for a real host's noise-based biome source
// and terrain generator in tests, a hand-written fake collaborator rather
// than a mocking framework.
type gridSampler struct {
	paint  func(x, z int32) biome.ID
	height int32
	calls  int
}

func newGridSampler(paint func(x, z int32) biome.ID) *gridSampler {
	return &gridSampler{paint: paint, height: 64}
}

func (g *gridSampler) Sample(ctx context.Context, nx, ny, nz int32) (biome.ID, error) {
	g.calls++
	return g.paint(nx, nz), nil
}

func (g *gridSampler) SurfaceHeight(ctx context.Context, bx, bz int32) (int32, error) {
	return g.height, nil
}

// failingSampler always returns err, used to exercise the fault-absorption
// path.
type failingSampler struct {
	err error
}

func (f failingSampler) Sample(ctx context.Context, nx, ny, nz int32) (biome.ID, error) {
	return biome.ID{}, f.err
}

func (f failingSampler) SurfaceHeight(ctx context.Context, bx, bz int32) (int32, error) {
	return 0, f.err
}

// square paints a filled square of target over otherwise-background.
func square(target, background biome.ID, minX, minZ, maxX, maxZ int32) func(x, z int32) biome.ID {
	return func(x, z int32) biome.ID {
		if x >= minX && x <= maxX && z >= minZ && z <= maxZ {
			return target
		}
		return background
	}
}
