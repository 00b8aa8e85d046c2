package heightmap

import (
	"context"
	"errors"
	"sync"
	"testing"
)

var errSample = errors.New("sample failed")

func planeSampler(ctx context.Context, bx, bz int32) (float64, error) {
	return float64(bx) + float64(bz)*2, nil
}

func TestHeightExactOnGridPoints(t *testing.T) {
	c := New(16, 100000)
	ctx := context.Background()

	h, err := c.Height(ctx, 0, 0, planeSampler)
	if err != nil {
		t.Fatal(err)
	}
	if h != 0 {
		t.Errorf("got %v, want 0", h)
	}

	h, err = c.Height(ctx, 16, 0, planeSampler)
	if err != nil {
		t.Fatal(err)
	}
	if h != 16 {
		t.Errorf("got %v, want 16", h)
	}
}

func TestHeightInterpolatesLinearPlaneExactly(t *testing.T) {
	c := New(16, 100000)
	ctx := context.Background()

	// A bilinear interpolant reproduces any affine function exactly.
	h, err := c.Height(ctx, 8, 8, planeSampler)
	if err != nil {
		t.Fatal(err)
	}
	want := float64(8) + float64(8)*2
	if h != want {
		t.Errorf("got %v, want %v", h, want)
	}
}

func TestHeightIsDeterministicAcrossRepeatedQueries(t *testing.T) {
	c := New(16, 100000)
	ctx := context.Background()

	first, err := c.Height(ctx, 37, -12, planeSampler)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Height(ctx, 37, -12, planeSampler)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected deterministic repeat query, got %v then %v", first, second)
	}
}

func TestConcurrentHeightQueriesArePublishedConsistently(t *testing.T) {
	c := New(16, 100000)
	ctx := context.Background()

	const goroutines = 64
	results := make([]float64, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			h, err := c.Height(ctx, 100, 100, planeSampler)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = h
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatalf("inconsistent published height: %v vs %v", results[i], results[0])
		}
	}
}

func TestEvictionBoundsSamplePointCount(t *testing.T) {
	c := New(16, 8) // two grid points per chunk side at spacing 16 -> 4 per chunk
	ctx := context.Background()

	for i := int32(0); i < 20; i++ {
		if _, err := c.Height(ctx, i*64, 0, planeSampler); err != nil {
			t.Fatal(err)
		}
	}

	stats := c.CacheStats()
	if stats.SamplePoints > c.maxPoints+4 {
		t.Errorf("sample point count %d exceeds bound %d by more than one chunk's worth", stats.SamplePoints, c.maxPoints)
	}
	if stats.Chunks == 0 {
		t.Error("expected at least one resident chunk")
	}
}

func TestFallbackHeightUsedOnSamplerError(t *testing.T) {
	c := New(16, 100000)
	ctx := context.Background()
	failing := func(ctx context.Context, bx, bz int32) (float64, error) {
		return 0, errSample
	}
	h, err := c.Height(ctx, 0, 0, failing)
	if err != nil {
		t.Fatalf("expected the fallback height instead of an error, got %v", err)
	}
	if want := fallbackHeight(0, 0); h != want {
		t.Errorf("got %v, want fallback height %v", h, want)
	}
}

func TestClearDropsAllChunks(t *testing.T) {
	c := New(16, 100000)
	ctx := context.Background()
	if _, err := c.Height(ctx, 0, 0, planeSampler); err != nil {
		t.Fatal(err)
	}
	c.Clear()
	if stats := c.CacheStats(); stats.Chunks != 0 {
		t.Errorf("expected empty cache after Clear, got %d chunks", stats.Chunks)
	}
}
