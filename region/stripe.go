package region

import (
	"hash/fnv"
	"sync"
)

// stripedLocks is a fixed-size array of mutexes indexed by an FNV-1a hash of
// the lock key, giving fine-grained, bounded-memory locking over an
// unbounded key space.
type stripedLocks struct {
	stripes []sync.Mutex
}

func newStripedLocks(n int) *stripedLocks {
	return &stripedLocks{stripes: make([]sync.Mutex, n)}
}

func (s *stripedLocks) indexFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(s.stripes)
}

// Lock locks the stripe for key and returns an unlock function.
func (s *stripedLocks) Lock(key string) func() {
	i := s.indexFor(key)
	s.stripes[i].Lock()
	return s.stripes[i].Unlock
}
