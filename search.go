package hashring

import (
	"math/bits"
	"sort"
)

const (
	// interpolationProbes bounds the interpolation steps before the
	// remaining range is handed to a binary search.
	interpolationProbes = 4

	// interpolationMinRange is the range size below which a binary search
	// is cheaper than another probe.
	interpolationMinRange = 16
)

// start returns the ring position a walk for hash h begins at: the first
// virtual node whose hash is not below h, wrapping to 0 past the end.
// An item whose hash equals a virtual node hash sorts before it.
func (r *Ring[K, V]) start(h uint64) int {
	var i int
	if r.interpolate {
		i = interpolationSuccessor(r.ring, h)
	} else {
		i = successor(r.ring, h)
	}

	if i >= len(r.ring) {
		return 0
	}
	return i
}

// successor returns the smallest index whose hash is >= h, or len(ring).
func successor(ring []vnode, h uint64) int {
	return sort.Search(len(ring), func(i int) bool {
		return ring[i].hash >= h
	})
}

// interpolationSuccessor returns the same index as successor.
func interpolationSuccessor(ring []vnode, h uint64) int {
	// ring[:lo] < h and ring[hi:] >= h.
	lo, hi := 0, len(ring)
	for probe := 0; probe < interpolationProbes && hi-lo > interpolationMinRange; probe++ {
		first, last := ring[lo].hash, ring[hi-1].hash
		if h <= first {
			return lo
		}
		if h > last {
			return hi
		}

		// first < h <= last, so the quotient is at most hi-1-lo.
		mulHi, mulLo := bits.Mul64(h-first, uint64(hi-1-lo))
		off, _ := bits.Div64(mulHi, mulLo, last-first)

		pos := lo + int(off)
		if ring[pos].hash < h {
			lo = pos + 1
		} else {
			hi = pos
		}
	}

	return lo + successor(ring[lo:hi], h)
}
