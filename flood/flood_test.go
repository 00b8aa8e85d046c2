package flood

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexkapoulas/BiomePruner/biome"
)

// gridWorld is a tiny synthetic biome map used across these tests: a small
// island of target, with every column outside the island reporting
// surrounding.
type gridWorld struct {
	island    map[ColumnPos]bool
	target    biome.ID
	surrounding biome.ID
}

func (g gridWorld) resolve(ctx context.Context, x, z int32) (biome.ID, error) {
	if g.island[ColumnPos{X: x, Z: z}] {
		return g.target, nil
	}
	return g.surrounding, nil
}

func square(minX, minZ, maxX, maxZ int32) map[ColumnPos]bool {
	m := make(map[ColumnPos]bool)
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			m[ColumnPos{X: x, Z: z}] = true
		}
	}
	return m
}

func TestRunFloodFillBoundedIsland(t *testing.T) {
	target := biome.NewID("minecraft:mushroom_fields")
	surrounding := biome.NewID("minecraft:plains")
	world := gridWorld{island: square(-2, -2, 2, 2), target: target, surrounding: surrounding}

	res, err := Run(context.Background(), ColumnPos{}, target, 50, world.resolve)
	if err != nil {
		t.Fatal(err)
	}
	if res.BailedOut {
		t.Fatal("expected a 25-column island to complete without bailing out")
	}
	if len(res.Visited) != 25 {
		t.Errorf("got %d visited columns, want 25", len(res.Visited))
	}
	for pos, b := range res.Frontier {
		if b != surrounding {
			t.Errorf("frontier column %v has unexpected biome %v", pos, b)
		}
	}
}

func TestRunFloodFillBailsOutOnLargeRegion(t *testing.T) {
	target := biome.NewID("minecraft:plains")
	surrounding := biome.NewID("minecraft:desert")
	world := gridWorld{island: square(-100, -100, 100, 100), target: target, surrounding: surrounding}

	res, err := Run(context.Background(), ColumnPos{}, target, 50, world.resolve)
	if err != nil {
		t.Fatal(err)
	}
	if !res.BailedOut {
		t.Fatal("expected a large region to trigger bailout")
	}
	if len(res.Visited) > 100 {
		t.Errorf("expected bailout to keep visited set close to threshold, got %d", len(res.Visited))
	}
}

func TestVotePicksDominantEligibleNeighbor(t *testing.T) {
	target := biome.NewID("minecraft:mushroom_fields")
	plains := biome.NewID("minecraft:plains")
	desert := biome.NewID("minecraft:desert")
	vanilla := biome.NewID("minecraft:forest")

	frontier := map[ColumnPos]biome.ID{
		{X: 0}: plains,
		{X: 1}: plains,
		{X: 2}: plains,
		{X: 3}: desert,
	}

	got := Vote(frontier, target, vanilla, func(biome.ID) bool { return true })
	if got != plains {
		t.Errorf("got %v, want %v", got, plains)
	}
}

func TestVoteSkipsIneligibleCandidatesForEligibleTally(t *testing.T) {
	target := biome.NewID("minecraft:mushroom_fields")
	river := biome.NewID("minecraft:river")
	desert := biome.NewID("minecraft:desert")
	vanilla := biome.NewID("minecraft:forest")

	frontier := map[ColumnPos]biome.ID{
		{X: 0}: river,
		{X: 1}: river,
		{X: 2}: desert,
	}

	canReplace := func(b biome.ID) bool { return b != river }
	got := Vote(frontier, target, vanilla, canReplace)
	if got != desert {
		t.Errorf("got %v, want %v", got, desert)
	}
}

func TestVoteNeverReturnsTarget(t *testing.T) {
	target := biome.NewID("minecraft:mushroom_fields")
	vanilla := biome.NewID("minecraft:forest")

	// Every frontier biome equals target (shouldn't happen in practice, since
	// BFS never classifies a target-biome column as frontier, but the vote
	// must still never pick target out of the tally; with a non-target
	// fallback it returns that fallback).
	frontier := map[ColumnPos]biome.ID{
		{X: 0}: target,
		{X: 1}: target,
	}
	got := Vote(frontier, target, vanilla, func(biome.ID) bool { return true })
	if got == target {
		t.Fatal("Vote must never return target")
	}
	if got != vanilla {
		t.Errorf("got %v, want fallback %v", got, vanilla)
	}
}

func TestVoteFallsBackOnEmptyFrontier(t *testing.T) {
	target := biome.NewID("minecraft:mushroom_fields")
	vanilla := biome.NewID("minecraft:forest")
	got := Vote(map[ColumnPos]biome.ID{}, target, vanilla, func(biome.ID) bool { return true })
	if got != vanilla {
		t.Errorf("got %v, want %v", got, vanilla)
	}
}

func TestDispatcherDeduplicatesConcurrentCallers(t *testing.T) {
	d := NewDispatcher()
	fp := "0:0:minecraft:plains"

	const callers = 32
	var producers int32Counter
	var wg sync.WaitGroup
	tasks := make([]*Task, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, isProducer := d.Acquire(fp)
			tasks[i] = task
			if isProducer {
				producers.inc()
				time.Sleep(10 * time.Millisecond)
				task.Complete(Result{Replacement: biome.NewID("minecraft:plains"), VisitedSize: 10}, nil)
			}
		}(i)
	}
	wg.Wait()

	if producers.get() != 1 {
		t.Fatalf("expected exactly one producer, got %d", producers.get())
	}

	for _, task := range tasks {
		res, err := task.Await(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if res.VisitedSize != 10 {
			t.Errorf("got visited size %d, want 10", res.VisitedSize)
		}
	}
}

func TestDispatcherRetainsCompletedTaskForLaterLookup(t *testing.T) {
	d := NewDispatcher()
	fp := "0:0:minecraft:plains"

	if _, ok := d.GetExisting(fp); ok {
		t.Fatal("expected no task before anyone has acquired the fingerprint")
	}

	task, isProducer := d.Acquire(fp)
	if !isProducer {
		t.Fatal("expected the first caller to become the producer")
	}
	task.Complete(Result{Replacement: biome.NewID("minecraft:plains"), VisitedSize: 3}, nil)

	if d.InFlight() != 0 {
		t.Errorf("expected a completed task not to count as in flight, got %d", d.InFlight())
	}

	existing, ok := d.GetExisting(fp)
	if !ok {
		t.Fatal("expected the completed task to remain in the dispatch table")
	}
	res, err := existing.Await(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.VisitedSize != 3 {
		t.Errorf("got visited size %d, want 3", res.VisitedSize)
	}

	againTask, isProducer := d.Acquire(fp)
	if isProducer {
		t.Fatal("expected a later Acquire for the same fingerprint to join the retained task, not start a new fill")
	}
	if againTask != existing {
		t.Error("expected Acquire to return the same retained task")
	}
}

type int32Counter struct {
	mu sync.Mutex
	n  int
}

func (c *int32Counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *int32Counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
