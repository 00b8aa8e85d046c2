package biome

import "testing"

func TestRegistryValidity(t *testing.T) {
	reg := NewRegistry()
	reg.BindAll([]string{"minecraft:plains", "minecraft:forest"})

	cases := []struct {
		name string
		id   ID
		want bool
	}{
		{"bound", NewID("minecraft:plains"), true},
		{"unbound", NewID("minecraft:ocean"), false},
		{"zero", ID{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Valid(c.id, reg); got != c.want {
				t.Errorf("Valid(%v) = %v, want %v", c.id, got, c.want)
			}
		})
	}
}

func TestValidNilRegistryAcceptsAnyNonZeroKey(t *testing.T) {
	if !Valid(NewID("minecraft:anything"), nil) {
		t.Fatal("expected non-zero id to be valid with nil registry")
	}
	if Valid(ID{}, nil) {
		t.Fatal("expected zero id to be invalid regardless of registry")
	}
}

func TestIsVillageClass(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"minecraft:plains", true},
		{"minecraft:snowy_plains", true},
		{"minecraft:desert", true},
		{"minecraft:savanna_plateau", true},
		{"minecraft:taiga", true},
		{"minecraft:mushroom_fields", false},
		{"minecraft:ocean", false},
	}
	for _, c := range cases {
		if got := IsVillageClass(NewID(c.key)); got != c.want {
			t.Errorf("IsVillageClass(%q) = %v, want %v", c.key, got, c.want)
		}
	}
}

func TestPredicatesShouldPreserve(t *testing.T) {
	p := Predicates{
		Preserved:            NewSet([]string{"minecraft:mushroom_fields"}),
		PreserveVillageClass: true,
	}
	if !p.ShouldPreserve(NewID("minecraft:mushroom_fields")) {
		t.Error("expected explicit preserved biome to be preserved")
	}
	if !p.ShouldPreserve(NewID("minecraft:plains")) {
		t.Error("expected village-class biome to be preserved when flag is set")
	}
	if p.ShouldPreserve(NewID("minecraft:ocean")) {
		t.Error("did not expect unrelated biome to be preserved")
	}
}

func TestPredicatesCaveAndReplacement(t *testing.T) {
	p := Predicates{
		Cave:                  NewSet([]string{"minecraft:deep_dark"}),
		ExcludedAsReplacement: NewSet([]string{"minecraft:river"}),
	}
	if !p.IsCave(NewID("minecraft:deep_dark")) {
		t.Error("expected deep_dark to be a cave biome")
	}
	if p.IsCave(NewID("minecraft:plains")) {
		t.Error("did not expect plains to be a cave biome")
	}
	if p.CanUseAsReplacement(NewID("minecraft:river")) {
		t.Error("did not expect river to be usable as a replacement")
	}
	if !p.CanUseAsReplacement(NewID("minecraft:forest")) {
		t.Error("expected forest to be usable as a replacement")
	}
}
