package hashring

import "slices"

// Take removes the virtual node with the highest priority for item and
// returns the real node that owned it. It reports false when the ring is
// empty.
//
// Only one virtual node is removed. The real node stays in the ring until
// all of its virtual nodes are gone, and it is still listed by Nodes after
// that.
func (r *Ring[K, V]) Take(item string) (Node[K, V], bool) {
	return r.TakeIf(item, func(Node[K, V]) bool { return true })
}

// TakeIf removes the virtual node with the highest priority for item among
// those whose real node satisfies pred, and returns that real node. It
// reports false when no virtual node qualifies.
//
// Removal shifts the tail of the ring, so it costs O(Len()).
func (r *Ring[K, V]) TakeIf(item string, pred func(Node[K, V]) bool) (Node[K, V], bool) {
	rejected := make([]bool, len(r.nodes))
	for pos, v := range r.walk(r.hashItem(item)) {
		if rejected[v.node] {
			continue
		}

		node := r.nodes[v.node]
		if !pred(node) {
			rejected[v.node] = true
			continue
		}

		r.ring = slices.Delete(r.ring, pos, pos+1)
		r.live[v.node]--
		if r.live[v.node] == 0 {
			r.represented--
		}

		return node, true
	}

	var zero Node[K, V]
	return zero, false
}
