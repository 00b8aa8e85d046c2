package flood

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/alexkapoulas/BiomePruner/biome"
)

// CanReplace reports whether a candidate biome is eligible to be chosen as
// the dominant-neighbor replacement. It is the flood package's view of the
// excluded-as-replacement predicate, kept as a function value so this
// package doesn't need to import config.
type CanReplace func(biome.ID) bool

// Vote tallies the frontier's biomes and returns the dominant eligible
// replacement. It tallies two histograms: counts restricted to eligible
// candidates, and counts over every frontier biome regardless of
// eligibility. The eligible histogram's argmax wins; if every frontier
// biome is ineligible, the unrestricted histogram's argmax wins instead;
// if the frontier is empty or holds only target, fallback is returned.
// Vote never picks target out of either histogram, but it returns fallback
// as given: the engine passes target itself, so a degenerate frontier
// leaves the column's biome unchanged.
func Vote(frontier map[ColumnPos]biome.ID, target, fallback biome.ID, canReplace CanReplace) biome.ID {
	eligible := make(map[biome.ID]int)
	all := make(map[biome.ID]int)

	for _, b := range frontier {
		all[b]++
		if b != target && canReplace(b) {
			eligible[b]++
		}
	}

	if winner, ok := argmax(eligible); ok {
		return winner
	}
	if winner, ok := argmax(all); ok && winner != target {
		return winner
	}
	return fallback
}

// argmax returns the key with the highest count, breaking ties by the
// lexicographically smallest key string so the result is deterministic
// regardless of map iteration order.
func argmax(counts map[biome.ID]int) (biome.ID, bool) {
	if len(counts) == 0 {
		return biome.ID{}, false
	}

	keys := maps.Keys(counts)
	slices.SortFunc(keys, func(a, b biome.ID) int {
		switch {
		case a.Key() < b.Key():
			return -1
		case a.Key() > b.Key():
			return 1
		default:
			return 0
		}
	})

	best := keys[0]
	bestCount := counts[best]
	for _, k := range keys[1:] {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best, true
}
