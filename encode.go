package hashring

import (
	"cmp"
	"encoding/binary"
	"math"
	"reflect"
)

// keyTerminator ends every string-like key so that ("ab", 1) and ("a", ...)
// never share an encoding prefix.
const keyTerminator = 0xff

// appendItem appends the encoded form of a looked up item to b.
func appendItem(b []byte, item string) []byte {
	b = append(b, item...)
	return append(b, keyTerminator)
}

// appendKey appends the encoded form of a node key to b. Strings (and
// types based on string) are written like items; integers and floats are
// written as 8 little endian bytes.
func appendKey[K cmp.Ordered](b []byte, key K) []byte {
	if s, ok := any(key).(string); ok {
		return appendItem(b, s)
	}

	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.String:
		return appendItem(b, v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return binary.LittleEndian.AppendUint64(b, uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return binary.LittleEndian.AppendUint64(b, v.Uint())
	case reflect.Float32, reflect.Float64:
		return binary.LittleEndian.AppendUint64(b, math.Float64bits(v.Float()))
	}

	return b
}

// appendSeq returns the (key, seq) tuple encoding. The result never shares
// its backing array with key.
func appendSeq(key []byte, seq int) []byte {
	return binary.LittleEndian.AppendUint64(key[:len(key):len(key)], uint64(seq))
}
