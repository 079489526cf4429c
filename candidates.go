package hashring

import "iter"

// walk visits every virtual node once, clockwise from the start position
// of hash h, yielding ring positions along with the virtual nodes.
func (r *Ring[K, V]) walk(h uint64) iter.Seq2[int, vnode] {
	return func(yield func(int, vnode) bool) {
		n := len(r.ring)
		if n == 0 {
			return
		}

		pos := r.start(h)
		for range n {
			if !yield(pos, r.ring[pos]) {
				return
			}
			if pos++; pos == n {
				pos = 0
			}
		}
	}
}

// Candidates returns the candidate nodes for item, highest priority first.
//
// Every real node with at least one virtual node left appears exactly once.
// The sequence is evaluated lazily against the state of the ring at the
// time it is iterated, and each iteration starts from scratch. Iterating
// an empty ring yields nothing.
func (r *Ring[K, V]) Candidates(item string) iter.Seq[Node[K, V]] {
	return func(yield func(Node[K, V]) bool) {
		if len(r.ring) == 0 {
			return
		}

		seen := make([]bool, len(r.nodes))
		found := 0
		for _, v := range r.walk(r.hashItem(item)) {
			if seen[v.node] {
				continue
			}
			seen[v.node] = true
			found++

			if !yield(r.nodes[v.node]) || found == r.represented {
				return
			}
		}
	}
}

// Get returns the node with the highest priority for item. It reports
// false only when the ring is empty.
func (r *Ring[K, V]) Get(item string) (Node[K, V], bool) {
	for n := range r.Candidates(item) {
		return n, true
	}

	var zero Node[K, V]
	return zero, false
}

// PreferenceList returns the first n candidate nodes for item. The list is
// shorter than n when fewer nodes are live.
func (r *Ring[K, V]) PreferenceList(item string, n int) []Node[K, V] {
	if n <= 0 {
		return []Node[K, V]{}
	}

	nodes := make([]Node[K, V], 0, min(n, r.represented))
	for node := range r.Candidates(item) {
		nodes = append(nodes, node)
		if len(nodes) == n {
			break
		}
	}

	return nodes
}
