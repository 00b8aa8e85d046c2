package smoother

import (
	"context"

	"github.com/alexkapoulas/BiomePruner/biome"
)

// Analysis explains why a query at a given position would or wouldn't be
// replaced, without mutating any cache beyond what the equivalent
// GetModifiedBiome call would do. A debug/introspection query for tooling.
type Analysis struct {
	Vanilla      biome.ID
	Surface      biome.ID
	Result       biome.ID
	Replaced     bool
	Preserved    bool
	Cave         bool
	KnownLarge   bool
	SpatialReuse bool
	VisitedSize  int
	BailedOut    bool
}

// Analyze runs the same decision procedure as GetModifiedBiome but returns
// a full explanation of each step, for diagnostic tooling and tests that
// need to assert *why* a result was produced.
func (e *Engine) Analyze(ctx context.Context, bx, by, bz int32, vanilla biome.ID, sampler Sampler, surfaceHeight SurfaceHeight) (Analysis, error) {
	a := Analysis{Vanilla: vanilla}

	if !biome.Valid(vanilla, e.registry) {
		a.Result = vanilla
		return a, ErrValidation
	}
	if e.predicates.ShouldPreserve(vanilla) {
		a.Preserved = true
		a.Result = vanilla
		return a, nil
	}
	if e.cfg.IsOceanMonument(vanilla, bx, bz) {
		a.Preserved = true
		a.Result = vanilla
		return a, nil
	}
	if e.predicates.IsCave(vanilla) {
		a.Cave = true
		a.Result = vanilla
		return a, nil
	}

	surfaceID, err := e.computeSurfaceBiome(ctx, bx, bz, sampler, surfaceHeight, nil)
	if err != nil {
		a.Result = vanilla
		return a, err
	}
	a.Surface = surfaceID

	if vanilla != surfaceID {
		a.Result = vanilla
		return a, nil
	}

	if spatial, ok := e.regions.GetSpatial(bx, bz, surfaceID); ok {
		a.SpatialReuse = true
		a.Result = spatial
		a.Replaced = spatial != vanilla
		return a, nil
	}
	if e.regions.IsKnownLargeArea(bx, bz, surfaceID) {
		a.KnownLarge = true
		a.Result = vanilla
		return a, nil
	}

	guarded := withReentryGuard(ctx)
	result, err := e.resolve(guarded, bx, by, bz, vanilla, sampler, surfaceHeight)
	if err != nil {
		a.Result = vanilla
		return a, err
	}

	a.Result = result
	a.Replaced = result != vanilla
	return a, nil
}
