package hashring

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	sip13 "github.com/dgryski/go-sip13"
)

// HashFn is a plain 64-bit hash function over bytes.
type HashFn func([]byte) uint64

// Hasher places items and virtual nodes on the ring.
//
// Implementations must be pure: the same input always hashes to the same
// value for the lifetime of a ring, otherwise lookups stop being
// deterministic. Neither method may retain the slices it is given.
type Hasher interface {
	// HashItem hashes the encoded form of a looked up item.
	HashItem(item []byte) uint64

	// HashVnode hashes the virtual node number seq of the node whose
	// encoded key is nodeKey.
	HashVnode(nodeKey []byte, seq int) uint64
}

// SipHash is the default Hasher. It uses SipHash-1-3 keyed with K0 and K1.
//
// The zero value is keyed with zeros, so rings built from the same nodes
// agree across processes.
type SipHash struct {
	K0, K1 uint64
}

// NewRandomSipHash returns a SipHash with random keys. Rings built with it
// resist hash flooding but place nodes differently in every process.
func NewRandomSipHash() (SipHash, error) {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return SipHash{}, fmt.Errorf("reading random seed: %w", err)
	}

	return SipHash{
		K0: binary.LittleEndian.Uint64(seed[:8]),
		K1: binary.LittleEndian.Uint64(seed[8:]),
	}, nil
}

func (h SipHash) HashItem(item []byte) uint64 {
	return sip13.Sum64(h.K0, h.K1, item)
}

func (h SipHash) HashVnode(nodeKey []byte, seq int) uint64 {
	return h.HashItem(appendSeq(nodeKey, seq))
}

// XXHash hashes with xxHash64. A zero Seed matches xxhash.Sum64.
type XXHash struct {
	Seed uint64
}

func (h XXHash) HashItem(item []byte) uint64 {
	if h.Seed == 0 {
		return xxhash.Sum64(item)
	}

	d := xxhash.NewWithSeed(h.Seed)
	d.Write(item)
	return d.Sum64()
}

func (h XXHash) HashVnode(nodeKey []byte, seq int) uint64 {
	return h.HashItem(appendSeq(nodeKey, seq))
}

// FuncHasher adapts a HashFn to the Hasher interface.
type FuncHasher HashFn

func (f FuncHasher) HashItem(item []byte) uint64 {
	return f(item)
}

func (f FuncHasher) HashVnode(nodeKey []byte, seq int) uint64 {
	return f(appendSeq(nodeKey, seq))
}
