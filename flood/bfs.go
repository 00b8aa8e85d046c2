package flood

import (
	"context"

	"github.com/alexkapoulas/BiomePruner/biome"
)

// ColumnPos is a single (x, z) column visited by the flood fill.
type ColumnPos struct {
	X, Z int32
}

// offsets is the fixed cardinal iteration order the fill walks in: +x, -x,
// +z, -z. Fixing the order keeps the fill's visitation sequence
// (and therefore its bailout point) deterministic for a given start and
// biome layout, regardless of goroutine scheduling.
var offsets = [4]ColumnPos{
	{X: 1, Z: 0},
	{X: -1, Z: 0},
	{X: 0, Z: 1},
	{X: 0, Z: -1},
}

// ColumnBiome resolves the (surface) biome at a column. It is the flood
// fill's only collaborator, kept as a plain function value so this package
// never depends on the sampler/cache machinery that produces it.
type ColumnBiome func(ctx context.Context, x, z int32) (biome.ID, error)

// BFSResult is the raw outcome of a bounded BFS, before the dominant-
// neighbor vote turns it into a replacement decision.
type BFSResult struct {
	Visited   map[ColumnPos]struct{}
	Frontier  map[ColumnPos]biome.ID // columns adjacent to Visited, keyed to their own biome
	BailedOut bool
}

// Run performs a bounded breadth-first flood fill outward from start,
// following columns whose biome equals target, and bails out once the
// visited set is clearly going to exceed threshold rather than walking an
// unbounded connected region to completion.
//
// The fill bails out as soon as the visited set exceeds threshold. Two
// further checks form a two-tier heuristic: the first catches a fill that
// has nearly reached the threshold and is still expanding faster than it's
// being absorbed; the second catches a fill that has passed a lower
// threshold fraction with an oversized frontier, a cheaper but
// earlier-firing signal for clearly-large regions.
func Run(ctx context.Context, start ColumnPos, target biome.ID, threshold int, resolve ColumnBiome) (BFSResult, error) {
	visited := map[ColumnPos]struct{}{start: {}}
	frontier := make(map[ColumnPos]biome.ID)
	queue := []ColumnPos{start}

	for len(queue) > 0 {
		if bailout(len(visited), len(queue), threshold) {
			return BFSResult{Visited: visited, Frontier: frontier, BailedOut: true}, nil
		}

		cur := queue[0]
		queue = queue[1:]

		for _, d := range offsets {
			next := ColumnPos{X: cur.X + d.X, Z: cur.Z + d.Z}
			if _, seen := visited[next]; seen {
				continue
			}

			b, err := resolve(ctx, next.X, next.Z)
			if err != nil {
				return BFSResult{}, err
			}

			if b != target {
				frontier[next] = b
				continue
			}

			delete(frontier, next)
			visited[next] = struct{}{}
			queue = append(queue, next)
		}

		select {
		case <-ctx.Done():
			return BFSResult{Visited: visited, Frontier: frontier, BailedOut: true}, ctx.Err()
		default:
		}
	}

	return BFSResult{Visited: visited, Frontier: frontier, BailedOut: false}, nil
}

func bailout(visitedSize, queueSize, threshold int) bool {
	if visitedSize > threshold {
		return true
	}
	if float64(visitedSize) > float64(threshold)*0.95 && queueSize > visitedSize {
		return true
	}
	if float64(visitedSize) > float64(threshold)*0.8 && queueSize > int(float64(threshold)*0.5) {
		return true
	}
	return false
}
