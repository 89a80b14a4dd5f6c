package prng

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source returns a random source seeded from key. Sources built from
// the same key produce the same stream, so gonum distributions can be
// sampled deterministically from a key:
//
//	d := distuv.Normal{Mu: 0, Sigma: 1, Src: prng.Source(key)}
//
// A Source should be used by a single consumer and then discarded.
func Source(key Key) rand.Source {
	hi, lo := Threefry2x32(key, math.MaxUint32, math.MaxUint32)
	return rand.NewSource(uint64(hi)<<32 | uint64(lo))
}

// Uniform samples a float uniformly from [lo, hi)
func Uniform(key Key, lo, hi float64) float64 {
	if lo == hi {
		return lo
	}
	return distuv.Uniform{Min: lo, Max: hi, Src: Source(key)}.Rand()
}

// Normal samples a float from the normal distribution N(mu, sigma²)
func Normal(key Key, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: Source(key)}.Rand()
}

// Intn samples an integer uniformly from [0, n). It panics if n <= 0.
func Intn(key Key, n int) int {
	if n <= 0 {
		panic("intn: n must be positive")
	}
	return rand.New(Source(key)).Intn(n)
}
