package hashring

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takeKeys(ring *Ring[string, struct{}], item string, n int) []string {
	var got []string
	for i := 0; i < n; i++ {
		node, ok := ring.Take(item)
		if !ok {
			got = append(got, "")
			continue
		}
		got = append(got, node.Key)
	}
	return got
}

func TestTake(t *testing.T) {
	ring := New(Config{}, docNodes()[:3])

	want := []string{"bar", "foo", "bar", "bar", "foo", "foo", "foo", "bar", "baz", "bar", "foo"}
	for i, key := range want {
		node, ok := ring.Take("aa")
		require.True(t, ok, "take #%d", i)
		assert.Equal(t, key, node.Key, "take #%d", i)
		assert.Equal(t, len(want)-i-1, ring.Len())
		assert.Equal(t, 3, ring.RealNodeCount())
	}

	_, ok := ring.Take("aa")
	assert.False(t, ok)
	assert.Equal(t, 0, ring.Len())
	assert.Equal(t, 0, ring.LiveNodeCount())
	assert.Len(t, ring.Nodes(), 3)
	assert.Empty(t, candidateKeys(ring, "aa"))
}

func TestTakeOtherItem(t *testing.T) {
	ring := New(Config{}, docNodes()[:3])

	assert.Equal(t,
		[]string{"foo", "bar", "baz", "bar", "foo", "bar", "foo", "bar", "bar", "foo", "foo", ""},
		takeKeys(ring, "bb", 12))
}

func TestTakeEmptyRing(t *testing.T) {
	ring := New[string, struct{}](Config{}, nil)

	_, ok := ring.Take("aa")
	assert.False(t, ok)

	_, ok = ring.TakeIf("aa", func(Node[string, struct{}]) bool { return true })
	assert.False(t, ok)
}

func TestTakeIf(t *testing.T) {
	ring := New(Config{}, docNodes()[:3])
	notBar := func(n Node[string, struct{}]) bool { return n.Key != "bar" }

	var got []string
	for {
		node, ok := ring.TakeIf("aa", notBar)
		if !ok {
			break
		}
		got = append(got, node.Key)
	}

	assert.Equal(t, []string{"foo", "foo", "foo", "foo", "baz", "foo"}, got)
	assert.Equal(t, 5, ring.Len())
	assert.Equal(t, 5, ring.Live("bar"))
	assert.Equal(t, []string{"bar"}, candidateKeys(ring, "aa"))
}

func TestTakeIfNoMatch(t *testing.T) {
	ring := New(Config{}, docNodes())

	calls := 0
	_, ok := ring.TakeIf("aa", func(Node[string, struct{}]) bool {
		calls++
		return false
	})

	assert.False(t, ok)
	assert.Equal(t, 11, ring.Len())
	// Each real node is asked once.
	assert.Equal(t, 3, calls)
}

func TestTakeDrainsOneNode(t *testing.T) {
	ring := New(Config{}, docNodes())
	isBaz := func(n Node[string, struct{}]) bool { return n.Key == "baz" }

	node, ok := ring.TakeIf("aa", isBaz)
	require.True(t, ok)
	assert.Equal(t, "baz", node.Key)

	assert.Equal(t, 0, ring.Live("baz"))
	assert.Equal(t, 2, ring.LiveNodeCount())
	assert.Equal(t, []string{"bar", "foo"}, candidateKeys(ring, "aa"))
	assert.Equal(t, []string{"foo", "bar"}, candidateKeys(ring, "bb"))
	assert.ElementsMatch(t, []string{"foo", "bar", "baz"}, keys(ring.Nodes()))

	_, ok = ring.TakeIf("aa", isBaz)
	assert.False(t, ok)
}

func TestTakeDoesNotAffectOtherVirtualNodes(t *testing.T) {
	ring := New(Config{}, docNodes())
	before := slices.Clone(ring.ring)

	_, ok := ring.Take("aa")
	require.True(t, ok)

	removed := 0
	j := 0
	for _, v := range before {
		if j < len(ring.ring) && ring.ring[j] == v {
			j++
			continue
		}
		removed++
	}
	assert.Equal(t, len(ring.ring), j)
	assert.Equal(t, 1, removed)
}

func BenchmarkTake(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ring := New(Config{}, []Node[string, struct{}]{
			NewNode[struct{}]("node1").WithQuantity(100),
			NewNode[struct{}]("node2").WithQuantity(100),
		})
		b.StartTimer()

		for ring.Len() > 0 {
			ring.Take("key")
		}
	}
}
