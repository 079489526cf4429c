package hashring

import (
	"cmp"
	"slices"
)

type Config struct {
	// Hasher is the hash function that we use to place items and
	// virtual nodes on the ring. Defaults to SipHash{}.
	Hasher Hasher

	// Interpolate makes lookups guess the starting position on the ring
	// from the item hash before falling back to a binary search. It pays
	// off on large rings whose hashes are spread uniformly.
	Interpolate bool
}

// vnode is a virtual node: a position on the ring owned by the real node
// at index node of the registry.
type vnode struct {
	hash uint64
	node int
}

// Ring is a consistent hash ring built once from a fixed set of nodes.
//
// After construction the ring can only shrink, one virtual node at a time,
// through Take and TakeIf. Ring is not safe for concurrent use when one of
// the goroutines removes virtual nodes; see SyncRing.
type Ring[K cmp.Ordered, V any] struct {
	hasher      Hasher
	interpolate bool

	// nodes is sorted by key and never changes after New.
	nodes []Node[K, V]
	// live holds the number of virtual nodes left for each entry of nodes.
	live []int
	// represented is the number of nodes with at least one live virtual node.
	represented int

	// ring is sorted by (hash, node). Since nodes is sorted by key, this is
	// also the (hash, key) order.
	ring []vnode
}

// New builds a ring out of nodes.
//
// If nodes contains several nodes with the same key, only one of them is
// kept. Which one is kept is not defined. Negative quantities count as zero.
// The nodes slice is not modified.
func New[K cmp.Ordered, V any](config Config, nodes []Node[K, V]) *Ring[K, V] {
	if config.Hasher == nil {
		config.Hasher = SipHash{}
	}

	r := &Ring[K, V]{
		hasher:      config.Hasher,
		interpolate: config.Interpolate,
		nodes:       dedup(nodes),
	}
	r.build()

	return r
}

func dedup[K cmp.Ordered, V any](nodes []Node[K, V]) []Node[K, V] {
	nodes = slices.Clone(nodes)
	slices.SortStableFunc(nodes, func(a, b Node[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	nodes = slices.CompactFunc(nodes, func(a, b Node[K, V]) bool {
		return a.Key == b.Key
	})

	for i := range nodes {
		nodes[i].Quantity = max(nodes[i].Quantity, 0)
	}

	return slices.Clip(nodes)
}

func (r *Ring[K, V]) build() {
	size := 0
	for _, n := range r.nodes {
		size += n.Quantity
	}

	r.ring = make([]vnode, 0, size)
	r.live = make([]int, len(r.nodes))

	var key []byte
	for i, n := range r.nodes {
		key = appendKey(key[:0], n.Key)
		for seq := 0; seq < n.Quantity; seq++ {
			r.ring = append(r.ring, vnode{
				hash: r.hasher.HashVnode(key, seq),
				node: i,
			})
		}

		r.live[i] = n.Quantity
		if n.Quantity > 0 {
			r.represented++
		}
	}

	slices.SortFunc(r.ring, func(a, b vnode) int {
		if c := cmp.Compare(a.hash, b.hash); c != 0 {
			return c
		}
		return cmp.Compare(a.node, b.node)
	})
}

// Len returns the number of virtual nodes left in the ring.
func (r *Ring[K, V]) Len() int {
	return len(r.ring)
}

// VirtualNodeCount is the same as Len.
func (r *Ring[K, V]) VirtualNodeCount() int {
	return len(r.ring)
}

// RealNodeCount returns the number of real nodes the ring was built with.
// Taking virtual nodes never changes it.
func (r *Ring[K, V]) RealNodeCount() int {
	return len(r.nodes)
}

// LiveNodeCount returns the number of real nodes that still own at least
// one virtual node. It is the length of every candidate sequence.
func (r *Ring[K, V]) LiveNodeCount() int {
	return r.represented
}

// Nodes returns a copy of the real nodes of the ring, in no particular
// order. Nodes whose virtual nodes have all been taken are included.
func (r *Ring[K, V]) Nodes() []Node[K, V] {
	return slices.Clone(r.nodes)
}

// Lookup returns the real node with the given key.
func (r *Ring[K, V]) Lookup(key K) (Node[K, V], bool) {
	i, ok := r.index(key)
	if !ok {
		var zero Node[K, V]
		return zero, false
	}

	return r.nodes[i], true
}

// Live returns the number of virtual nodes left for the node with the
// given key, or 0 if there is no such node.
func (r *Ring[K, V]) Live(key K) int {
	i, ok := r.index(key)
	if !ok {
		return 0
	}

	return r.live[i]
}

func (r *Ring[K, V]) index(key K) (int, bool) {
	return slices.BinarySearchFunc(r.nodes, key, func(n Node[K, V], key K) int {
		return cmp.Compare(n.Key, key)
	})
}

func (r *Ring[K, V]) hashItem(item string) uint64 {
	return r.hasher.HashItem(appendItem(nil, item))
}
