package pcg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermute64Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state uint64
		xshrr uint32
		xshrs uint32
	}{
		{state: 0, xshrr: 0, xshrs: 0},
		{state: 1, xshrr: 0, xshrs: 0},
		{state: 0x853c49e6748fea9b, xshrr: 0x152ca78d, xshrs: 0x4f12fca1},
		{state: 0xffffffffffffffff, xshrr: 0xfff00001, xshrs: 0xffffe000},
		{state: 0x0123456789abcdef, xshrr: 0x2468a5eb, xshrs: 0x8d158c12},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.xshrr, XSHRR64(tt.state), "XSHRR64(%#x)", tt.state)
		assert.Equal(t, tt.xshrs, XSHRS64(tt.state), "XSHRS64(%#x)", tt.state)
	}
}

func TestPermute128Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state Uint128
		xslrr uint64
		dxsm  uint64
	}{
		{state: Uint128{}, xslrr: 0, dxsm: 0},
		{state: Uint128{Lo: 1}, xslrr: 1, dxsm: 0},
		{state: Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}, xslrr: 0, dxsm: 0xe4dd58b4ffffe4de},
		{state: Uint128{Hi: 0x0123456789abcdef, Lo: 0xfedcba9876543210}, xslrr: 0xffffffffffffffff, dxsm: 0xa5c2f45958c644a2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.xslrr, XSLRR128(tt.state), "XSLRR128(%s)", tt.state.Hex())
		assert.Equal(t, tt.dxsm, DXSM128(tt.state), "DXSM128(%s)", tt.state.Hex())
	}
}

func TestVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   Variant
		name   string
		state  int
		output int
	}{
		{input: "xsh-rr", want: XSHRR, name: "xsh-rr", state: 64, output: 32},
		{input: "XSHRS", want: XSHRS, name: "xsh-rs", state: 64, output: 32},
		{input: " xsl-rr ", want: XSLRR, name: "xsl-rr", state: 128, output: 64},
		{input: "DXSM", want: DXSM, name: "dxsm", state: 128, output: 64},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVariant(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.name, v.String())
			assert.Equal(t, tt.state, v.StateBits())
			assert.Equal(t, tt.output, v.OutputBits())
		})
	}

	_, err := ParseVariant("rxs-m-xs")
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Equal(t, "Variant(9)", Variant(9).String())
	assert.Zero(t, Variant(0).StateBits())
	assert.Len(t, Variants(), 4)
}
