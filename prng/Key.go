// Package prng implements deterministic, splittable pseudo-random keys.
//
// A Key never changes. Randomness is obtained by splitting a Key into
// new Keys and handing each consumer its own Key, so that the same Key
// always produces the same random outcomes no matter where or in what
// order the consumers run. The splitting function is the Threefry-2x32
// block cipher laid out in the same way as JAX's random.split, so keys
// derived here match keys derived there.
package prng

import (
	"fmt"
	"math/bits"
)

// KeyLen is the number of 32-bit words in a Key
const KeyLen int = 2

// Key is an opaque pseudo-random key
type Key [KeyLen]uint32

// InvalidKeyError is returned when raw key data has the wrong shape
type InvalidKeyError struct {
	Len int
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key: want %d words, have %d", KeyLen, e.Len)
}

// New returns the Key for a 64-bit seed
func New(seed uint64) Key {
	return Key{uint32(seed >> 32), uint32(seed)}
}

// FromData constructs a Key from its raw words
func FromData(data []uint32) (Key, error) {
	if len(data) != KeyLen {
		return Key{}, &InvalidKeyError{Len: len(data)}
	}
	return Key{data[0], data[1]}, nil
}

// Data returns a copy of the raw words of the Key
func (k Key) Data() []uint32 {
	return []uint32{k[0], k[1]}
}

// Uint64 packs the Key into a single 64-bit value
func (k Key) Uint64() uint64 {
	return uint64(k[0])<<32 | uint64(k[1])
}

func (k Key) String() string {
	return fmt.Sprintf("Key[%d %d]", k[0], k[1])
}

// Split derives n new keys from key. The same key and n always produce
// the same keys. If n <= 0, no keys are returned.
func Split(key Key, n int) []Key {
	if n <= 0 {
		return nil
	}

	// Counters 0..2n-1 are hashed as the pairs (i, n+i), then the two
	// output halves are concatenated and read back two words at a time
	flat := make([]uint32, 2*n)
	for i := 0; i < n; i++ {
		flat[i], flat[n+i] = Threefry2x32(key, uint32(i), uint32(n+i))
	}

	keys := make([]Key, n)
	for i := range keys {
		keys[i] = Key{flat[2*i], flat[2*i+1]}
	}
	return keys
}

// Split2 splits key into two new keys
func Split2(key Key) (Key, Key) {
	keys := Split(key, 2)
	return keys[0], keys[1]
}

// FoldIn derives a new key from key and some integer data, such as an
// index or a step number
func FoldIn(key Key, data uint32) Key {
	x0, x1 := Threefry2x32(key, 0, data)
	return Key{x0, x1}
}

var rotations = [2][4]int{{13, 15, 26, 6}, {17, 29, 16, 24}}

// Threefry2x32 hashes the counter (c0, c1) under key with 20 rounds of
// the Threefry-2x32 block function
func Threefry2x32(key Key, c0, c1 uint32) (uint32, uint32) {
	ks := [3]uint32{key[0], key[1], key[0] ^ key[1] ^ 0x1BD11BDA}

	x0 := c0 + ks[0]
	x1 := c1 + ks[1]

	for group := 0; group < 5; group++ {
		for _, r := range rotations[group%2] {
			x0 += x1
			x1 = bits.RotateLeft32(x1, r)
			x1 ^= x0
		}

		// Key injection
		x0 += ks[(group+1)%3]
		x1 += ks[(group+2)%3] + uint32(group+1)
	}
	return x0, x1
}
