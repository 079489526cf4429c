package hashring

import (
	"cmp"
	"iter"
	"sync"
)

// SyncRing guards a Ring with a read-write lock so that lookups from many
// goroutines can be interleaved with Take calls.
//
// Lookups share the read lock; Take and TakeIf hold the write lock.
type SyncRing[K cmp.Ordered, V any] struct {
	mu   sync.RWMutex
	ring *Ring[K, V]
}

// NewSync builds a ring like New and wraps it in a SyncRing.
func NewSync[K cmp.Ordered, V any](config Config, nodes []Node[K, V]) *SyncRing[K, V] {
	return &SyncRing[K, V]{ring: New(config, nodes)}
}

// Candidates is like Ring.Candidates. The read lock is held while the
// sequence is being iterated, so the loop body must not call Take or
// TakeIf on s.
func (s *SyncRing[K, V]) Candidates(item string) iter.Seq[Node[K, V]] {
	return func(yield func(Node[K, V]) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		for n := range s.ring.Candidates(item) {
			if !yield(n) {
				return
			}
		}
	}
}

// Get is like Ring.Get.
func (s *SyncRing[K, V]) Get(item string) (Node[K, V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ring.Get(item)
}

// PreferenceList is like Ring.PreferenceList.
func (s *SyncRing[K, V]) PreferenceList(item string, n int) []Node[K, V] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ring.PreferenceList(item, n)
}

// Take is like Ring.Take.
func (s *SyncRing[K, V]) Take(item string) (Node[K, V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ring.Take(item)
}

// TakeIf is like Ring.TakeIf. pred is called with the write lock held.
func (s *SyncRing[K, V]) TakeIf(item string, pred func(Node[K, V]) bool) (Node[K, V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ring.TakeIf(item, pred)
}

// Stats is a consistent snapshot of the ring counters.
type Stats struct {
	VirtualNodes int
	RealNodes    int
	LiveNodes    int
}

// Stats returns the ring counters read under a single lock.
func (s *SyncRing[K, V]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		VirtualNodes: s.ring.VirtualNodeCount(),
		RealNodes:    s.ring.RealNodeCount(),
		LiveNodes:    s.ring.LiveNodeCount(),
	}
}

// NodeState is a real node together with its number of live virtual nodes.
type NodeState[K cmp.Ordered, V any] struct {
	Node[K, V]
	Live int
}

// Nodes returns every real node with the number of virtual nodes it has
// left, read under a single lock.
func (s *SyncRing[K, V]) Nodes() []NodeState[K, V] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]NodeState[K, V], len(s.ring.nodes))
	for i, n := range s.ring.nodes {
		states[i] = NodeState[K, V]{Node: n, Live: s.ring.live[i]}
	}

	return states
}
