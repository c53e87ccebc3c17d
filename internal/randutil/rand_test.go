package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pcgrand/pcg"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestNearbySeedsDiverge(t *testing.T) {
	t.Parallel()

	a := NewSource(1)
	b := NewSource(2)
	assert.NotEqual(t, a.Increment(), b.Increment())
	assert.NotEqual(t, a.Next(), b.Next())
}

func TestWrapSamples(t *testing.T) {
	t.Parallel()

	r := Wrap(pcg.NewPCG32(42, 54))
	perm := r.Perm(10)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, perm)

	for i := 0; i < 1000; i++ {
		n := r.IntN(6)
		require.True(t, n >= 0 && n < 6)
	}
}

func TestMix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), Mix(0))
	assert.NotEqual(t, Mix(1), Mix(2))
}
