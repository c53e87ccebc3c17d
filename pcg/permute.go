package pcg

import (
	"fmt"
	"math/bits"
	"strings"
)

// Variant selects the output permutation a generator applies to its state.
// The set is closed: each variant is tied to one state width.
type Variant uint8

const (
	// XSHRR is xorshift-high then random rotate, 64-bit state to 32-bit
	// output. It is the canonical pcg32.
	XSHRR Variant = iota + 1
	// XSHRS is xorshift-high then random shift, 64-bit state to 32-bit output.
	XSHRS
	// XSLRR is xorshift-low then random rotate, 128-bit state to 64-bit
	// output. It is the canonical pcg64.
	XSLRR
	// DXSM is double xorshift multiply, 128-bit state to 64-bit output, as
	// used by math/rand/v2 and numpy's PCG64DXSM.
	DXSM
)

var variantNames = [...]string{
	XSHRR: "xsh-rr",
	XSHRS: "xsh-rs",
	XSLRR: "xsl-rr",
	DXSM:  "dxsm",
}

// Variants lists every supported variant.
func Variants() []Variant {
	return []Variant{XSHRR, XSHRS, XSLRR, DXSM}
}

func (v Variant) String() string {
	if v.valid() {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

func (v Variant) valid() bool {
	return v >= XSHRR && v <= DXSM
}

// StateBits is the width of the LCG state the variant permutes, or 0 for an
// unknown variant.
func (v Variant) StateBits() int {
	switch v {
	case XSHRR, XSHRS:
		return 64
	case XSLRR, DXSM:
		return 128
	}
	return 0
}

// OutputBits is the width of one native output word, or 0 for an unknown
// variant.
func (v Variant) OutputBits() int {
	return v.StateBits() / 2
}

// ParseVariant accepts a variant name in any case, with a dash, an
// underscore or no separator.
func ParseVariant(s string) (Variant, error) {
	want := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Variants() {
		if strings.ReplaceAll(variantNames[v], "-", "") == want {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// XSHRR64 is the XSH-RR output function for a 64-bit state: the top five
// bits pick a rotation applied to a xorshifted 32-bit slice of the state.
func XSHRR64(state uint64) uint32 {
	xorshifted := uint32(((state >> 18) ^ state) >> 27)
	rot := int(state >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// XSHRS64 is the XSH-RS output function for a 64-bit state: the top three
// bits pick a shift of 22 to 29 bits.
func XSHRS64(state uint64) uint32 {
	return uint32(((state >> 22) ^ state) >> (22 + state>>61))
}

// XSLRR128 is the XSL-RR output function for a 128-bit state: the halves
// are xored and rotated by the top six bits.
func XSLRR128(state Uint128) uint64 {
	return bits.RotateLeft64(state.Hi^state.Lo, -int(state.Hi>>58))
}

// DXSM128 is the DXSM output function for a 128-bit state.
func DXSM128(state Uint128) uint64 {
	const cheapMul = 0xda942042e4dd58b5
	hi := state.Hi
	hi ^= hi >> 32
	hi *= cheapMul
	hi ^= hi >> 48
	hi *= state.Lo | 1
	return hi
}

func permute64(v Variant, state uint64) uint32 {
	if v == XSHRS {
		return XSHRS64(state)
	}
	return XSHRR64(state)
}

func permute128(v Variant, state Uint128) uint64 {
	if v == DXSM {
		return DXSM128(state)
	}
	return XSLRR128(state)
}
