package pcg

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a, err := New(v, U128(42), U128(54))
			require.NoError(t, err)
			b, err := New(v, U128(42), U128(54))
			require.NoError(t, err)
			assert.Equal(t, v, a.Variant())
			for i := 0; i < 32; i++ {
				require.Equal(t, a.Uint64(), b.Uint64())
			}
		})
	}

	src, err := New(XSHRR, U128(42), U128(54))
	require.NoError(t, err)
	assert.Equal(t, uint32(0xa15c02b7), src.Uint32())

	_, err = New(XSHRR, Uint128{Hi: 1}, U128(0))
	assert.ErrorIs(t, err, ErrSeedRange)
	_, err = New(XSHRS, U128(0), Uint128{Hi: 1})
	assert.ErrorIs(t, err, ErrSeedRange)
	_, err = New(Variant(0), U128(0), U128(0))
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	src, err := Default(XSHRR)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x152ca78d), src.Uint32())

	src, err = Default(DXSM)
	require.NoError(t, err)
	assert.Equal(t, DXSM, src.Variant())

	_, err = Default(Variant(42))
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestRestore(t *testing.T) {
	t.Parallel()

	for _, v := range Variants() {
		src, err := New(v, U128(42), U128(54))
		require.NoError(t, err)
		src.Jump(U128(99))

		data, err := src.MarshalBinary()
		require.NoError(t, err)
		restored, err := Restore(data)
		require.NoError(t, err)
		assert.Equal(t, v, restored.Variant())

		want := make([]byte, 64)
		got := make([]byte, 64)
		src.Fill(want)
		restored.Fill(got)
		assert.Equal(t, want, got, v.String())
	}

	_, err := Restore([]byte("pcg"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = Restore([]byte("pcg:\x20\x01"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestSourceDrivesRandV2(t *testing.T) {
	t.Parallel()

	a := rand.New(NewPCG32(42, 54))
	b := rand.New(NewPCG32(42, 54))
	for i := 0; i < 100; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}

	r := rand.New(NewPCG64(U128(1), U128(2)))
	for i := 0; i < 100; i++ {
		f := r.Float64()
		require.True(t, f >= 0 && f < 1)
	}
}

func TestFromEntropy(t *testing.T) {
	t.Parallel()

	for _, v := range Variants() {
		src, err := FromEntropy(v, nil)
		require.NoError(t, err)
		def, err := Default(v)
		require.NoError(t, err)
		assert.Equal(t, def.Uint64(), src.Uint64(), v.String())
	}

	_, err := FromEntropy(Variant(0), nil)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestDefaultStream(t *testing.T) {
	t.Parallel()

	assert.Equal(t, U128(DefaultStream32), DefaultStream(XSHRS))
	assert.Equal(t, DefaultStream64, DefaultStream(DXSM))
}
