// Package biome defines the opaque biome identity the engine operates on,
// a small string-keyed registry, and the configurable predicates
// (preserved / cave / excluded-as-replacement / village-class) that drive
// the smoothing decision procedure.
package biome

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// ID is the engine's opaque identity for a biome. It carries only a stable
// string key (the host's registry identifier, e.g. "minecraft:plains"), so
// two IDs compare equal iff their keys are equal; whether that key is
// currently bound is tracked separately by a Registry.
type ID struct {
	key string
}

// NewID returns the ID for key. It does not check that key is registered;
// use Registry.Resolve for that.
func NewID(key string) ID { return ID{key: key} }

// Key returns the stable registry identifier.
func (b ID) Key() string { return b.key }

// IsZero reports whether b is the zero value (never produced by a sampler;
// used internally to detect uninitialized fields).
func (b ID) IsZero() bool { return b.key == "" }

// String implements fmt.Stringer.
func (b ID) String() string { return b.key }

// Registry tracks which ID keys are currently bound, so the engine's
// validity predicate can reject stale or unbound ids pulled from a cache
// after a registry reload.
//
// A string-keyed table the host populates once at startup and the engine
// only ever reads.
type Registry struct {
	bound map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{bound: make(map[string]struct{})}
}

// Bind marks key as a valid, registry-bound identifier.
func (r *Registry) Bind(key string) {
	r.bound[key] = struct{}{}
}

// BindAll marks every key in keys as bound.
func (r *Registry) BindAll(keys []string) {
	for _, k := range keys {
		r.Bind(k)
	}
}

// IsBound reports whether id's key is currently bound.
func (r *Registry) IsBound(id ID) bool {
	if id.IsZero() {
		return false
	}
	_, ok := r.bound[id.key]
	return ok
}

// Valid is the "decoration-safe" validity predicate: non-zero key and
// (if a registry is supplied) registry-bound. A nil registry only checks
// for a non-empty key, which is the cheapest safe default when the host
// hasn't wired registry validation.
func Valid(id ID, r *Registry) bool {
	if id.IsZero() {
		return false
	}
	if r == nil {
		return true
	}
	return r.IsBound(id)
}

// villageClassTokens drives the preserveVillageBiomes substring match:
// biomes whose identifier path
// contains any of these tokens are treated as village-adjacent and eligible
// for the optional village-class preservation policy.
var villageClassTokens = []string{"plains", "desert", "savanna", "taiga", "snowy"}

// pathOf strips a "namespace:" prefix the way Minecraft-style identifiers
// carry one (e.g. "minecraft:snowy_plains" -> "snowy_plains"); identifiers
// without a namespace are returned unchanged.
func pathOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}

// IsVillageClass reports whether id's identifier path contains one of the
// village-adjacent tokens (plains, desert, savanna, taiga, snowy),
// independent of separator style ("snowy_plains", "Snowy Plains", ...).
// strcase.ToSnake normalizes whatever casing/separator the host's registry
// uses before the substring match runs.
func IsVillageClass(id ID) bool {
	path := strcase.ToSnake(pathOf(id.key))
	for _, tok := range villageClassTokens {
		if strings.Contains(path, tok) {
			return true
		}
	}
	return false
}
