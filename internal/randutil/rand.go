// Package randutil bridges pcg generators into math/rand/v2 so sampling
// code (IntN, Float64, Shuffle) runs on them without adapters.
package randutil

import (
	rand "math/rand/v2"

	"github.com/lox/pcgrand/pcg"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand on a PCG64 seeded deterministically from seed.
// The 64-bit seed is spread over the 128-bit seed and stream with
// splitmix64 so that nearby seeds land on unrelated streams.
func New(seed int64) *rand.Rand {
	return Wrap(NewSource(seed))
}

// NewSource is New without the rand.Rand wrapper.
func NewSource(seed int64) *pcg.PCG64 {
	u := uint64(seed)
	s := pcg.Uint128{Hi: Mix(u), Lo: Mix(u + goldenRatio64)}
	stream := pcg.Uint128{Hi: Mix(u + 2*goldenRatio64), Lo: Mix(u + 3*goldenRatio64)}
	return pcg.NewPCG64(s, stream)
}

// Wrap hands src to rand.New.
func Wrap(src pcg.Source) *rand.Rand {
	return rand.New(src)
}

// Mix is the splitmix64 finalizer.
func Mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
