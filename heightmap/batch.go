package heightmap

import "context"

// batchSize is the per-caller working set capacity: a small fixed-size ring
// buffer is enough to avoid re-querying the shared cache for columns
// visited repeatedly in a tight loop (a flood fill re-checking its own
// frontier, for instance).
const batchSize = 8

type batchSlot struct {
	key    chunkKey
	bx, bz int32
	height float64
}

// Batch is a caller-owned, single-goroutine working set that sits in front
// of a Cache. Go has no thread-locals, so callers here hold a *Batch
// explicitly and thread it through whatever tight loop wants the
// short-lived memoization: an ordinary Go value, not an implicit global
// tied to goroutine identity.
type Batch struct {
	cache *Cache
	slots [batchSize]batchSlot
	len   int
	next  int // ring cursor for eviction once slots is full
}

// NewBatch returns a Batch backed by c. The returned value must not be
// shared across goroutines.
func (c *Cache) NewBatch() *Batch {
	return &Batch{cache: c}
}

// Height returns the height at (bx, bz), first checking this batch's local
// slots and falling back to the shared Cache (and therefore fn) on a miss.
func (b *Batch) Height(ctx context.Context, bx, bz int32, fn SampleFunc) (float64, error) {
	key := chunkOf(bx, bz)
	for i := 0; i < b.len; i++ {
		if b.slots[i].key == key && b.slots[i].bx == bx && b.slots[i].bz == bz {
			return b.slots[i].height, nil
		}
	}

	h, err := b.cache.Height(ctx, bx, bz, fn)
	if err != nil {
		return 0, err
	}

	slot := batchSlot{key: key, bx: bx, bz: bz, height: h}
	if b.len < batchSize {
		b.slots[b.len] = slot
		b.len++
	} else {
		b.slots[b.next] = slot
		b.next = (b.next + 1) % batchSize
	}
	return h, nil
}

// Reset clears the batch's local slots without touching the shared Cache.
func (b *Batch) Reset() {
	b.len = 0
	b.next = 0
}
