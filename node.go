package hashring

import (
	"cmp"
	"fmt"
)

// Node is a real node of the ring.
type Node[K cmp.Ordered, V any] struct {
	// Key identifies the node. Keys are unique within a ring.
	Key K

	// Value is an arbitrary payload carried along with the node, for
	// example the address of the server the node stands for.
	Value V

	// Quantity is the number of virtual nodes the node gets on the ring.
	// It works as the weight of the node.
	Quantity int
}

// NewNode returns a node with a zero value and a quantity of 1.
//
//	n := hashring.NewNode[string]("cache-a").WithQuantity(100)
func NewNode[V any, K cmp.Ordered](key K) Node[K, V] {
	return Node[K, V]{
		Key:      key,
		Quantity: 1,
	}
}

// WithValue returns a copy of n carrying value.
func (n Node[K, V]) WithValue(value V) Node[K, V] {
	n.Value = value
	return n
}

// WithQuantity returns a copy of n with the given number of virtual nodes.
func (n Node[K, V]) WithQuantity(quantity int) Node[K, V] {
	n.Quantity = quantity
	return n
}

func (n Node[K, V]) String() string {
	return fmt.Sprint(n.Key)
}
