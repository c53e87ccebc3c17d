package pcg

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mod128 = new(big.Int).Lsh(big.NewInt(1), 128)

func TestUint128Arithmetic(t *testing.T) {
	t.Parallel()

	values := []Uint128{
		{},
		{Lo: 1},
		{Lo: ^uint64(0)},
		{Hi: 1},
		{Hi: ^uint64(0), Lo: ^uint64(0)},
		{Hi: 0x0123456789abcdef, Lo: 0xfedcba9876543210},
		Multiplier128,
		InitState64,
	}

	for _, a := range values {
		for _, b := range values {
			wantSum := new(big.Int).Add(a.Big(), b.Big())
			wantSum.Mod(wantSum, mod128)
			assert.Equal(t, wantSum.String(), a.Add(b).String(), "%s + %s", a.Hex(), b.Hex())

			wantProd := new(big.Int).Mul(a.Big(), b.Big())
			wantProd.Mod(wantProd, mod128)
			assert.Equal(t, wantProd.String(), a.Mul(b).String(), "%s * %s", a.Hex(), b.Hex())
		}
		assert.True(t, a.Add(a.Neg()).IsZero(), "%s + -%s", a.Hex(), a.Hex())
	}
}

func TestUint128Shifts(t *testing.T) {
	t.Parallel()

	u := Uint128{Hi: 0x8000000000000001, Lo: 0x8000000000000001}
	assert.Equal(t, Uint128{Hi: 0x0000000000000003, Lo: 0x0000000000000002}, u.Lsh(1))
	assert.Equal(t, Uint128{Hi: 0x4000000000000000, Lo: 0xc000000000000000}, u.Rsh(1))
	assert.Equal(t, Uint128{Hi: 0x8000000000000001}, u.Lsh(64))
	assert.Equal(t, Uint128{Lo: 0x8000000000000001}, u.Rsh(64))
	assert.Equal(t, Uint128{Hi: 0x8000000000000000}, Uint128{Lo: 1}.Lsh(127))
	assert.Equal(t, Uint128{Lo: 1}, Uint128{Hi: 0x8000000000000000}.Rsh(127))
	assert.Equal(t, u, u.Lsh(0))
	assert.True(t, u.Lsh(128).IsZero())
	assert.True(t, u.Rsh(200).IsZero())
}

func TestParseUint128(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Uint128
		wantErr bool
	}{
		{input: "0", want: Uint128{}},
		{input: "42", want: U128(42)},
		{input: "0x2a", want: U128(42)},
		{input: "1_000_000", want: U128(1000000)},
		{input: "18446744073709551616", want: Uint128{Hi: 1}},
		{input: "0xffffffffffffffffffffffffffffffff", want: Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}},
		{input: "0x100000000000000000000000000000000", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "twelve", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUint128(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUint128Format(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42", U128(42).String())
	assert.Equal(t, "0x2a", U128(42).Hex())
	assert.Equal(t, "18446744073709551616", Uint128{Hi: 1}.String())
	assert.Equal(t, "0x10000000000000000", Uint128{Hi: 1}.Hex())
	assert.Equal(t, "0x2360ed051fc65da44385df649fccf645", Multiplier128.Hex())
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	u, err := ParseOffset("1000")
	require.NoError(t, err)
	assert.Equal(t, U128(1000), u)

	u, err = ParseOffset("-1")
	require.NoError(t, err)
	assert.Equal(t, Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}, u)
	assert.True(t, u.Add(U128(1)).IsZero())

	_, err = ParseOffset("--1")
	assert.Error(t, err)
	_, err = ParseOffset("-")
	assert.Error(t, err)
}
