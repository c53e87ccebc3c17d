package pcg

import (
	"fmt"
	"math/big"
	"math/bits"
	"strings"
)

// Uint128 is an unsigned 128-bit integer held as two 64-bit halves.
// Arithmetic wraps modulo 2^128, matching the native uint64 semantics.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// U128 widens v to a Uint128.
func U128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Add returns u+v mod 2^128.
func (u Uint128) Add(v Uint128) Uint128 {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, _ := bits.Add64(u.Hi, v.Hi, carry)
	return Uint128{Hi: hi, Lo: lo}
}

// Mul returns u*v mod 2^128.
func (u Uint128) Mul(v Uint128) Uint128 {
	hi, lo := bits.Mul64(u.Lo, v.Lo)
	hi += u.Hi*v.Lo + u.Lo*v.Hi
	return Uint128{Hi: hi, Lo: lo}
}

// Neg returns 2^128-u, the two's complement of u. Advancing by u.Neg()
// undoes an advance by u.
func (u Uint128) Neg() Uint128 {
	return Uint128{Hi: ^u.Hi, Lo: ^u.Lo}.Add(Uint128{Lo: 1})
}

// Lsh returns u<<n. Shifts of 128 or more yield zero.
func (u Uint128) Lsh(n uint) Uint128 {
	switch {
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Hi: u.Lo << (n - 64)}
	case n == 0:
		return u
	}
	return Uint128{Hi: u.Hi<<n | u.Lo>>(64-n), Lo: u.Lo << n}
}

// Rsh returns u>>n. Shifts of 128 or more yield zero.
func (u Uint128) Rsh(n uint) Uint128 {
	switch {
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Lo: u.Hi >> (n - 64)}
	case n == 0:
		return u
	}
	return Uint128{Hi: u.Hi >> n, Lo: u.Lo>>n | u.Hi<<(64-n)}
}

// IsZero reports whether u == 0.
func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Odd reports whether the low bit of u is set.
func (u Uint128) Odd() bool {
	return u.Lo&1 == 1
}

// Big returns u as a big.Int.
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

// String formats u in decimal.
func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%d", u.Lo)
	}
	return u.Big().String()
}

// Hex formats u as 0x-prefixed lowercase hex without leading zeros.
func (u Uint128) Hex() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%#x", u.Lo)
	}
	return fmt.Sprintf("%#x%016x", u.Hi, u.Lo)
}

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ParseUint128 parses a decimal, 0x hex, 0o octal or 0b binary literal.
// Underscores between digits are accepted, as in Go source.
func ParseUint128(s string) (Uint128, error) {
	b, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return Uint128{}, fmt.Errorf("pcg: invalid integer %q", s)
	}
	if b.Sign() < 0 || b.Cmp(maxUint128) > 0 {
		return Uint128{}, fmt.Errorf("pcg: %q out of range for 128 bits", s)
	}
	lo := new(big.Int).And(b, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(b, 64)
	return Uint128{Hi: hi.Uint64(), Lo: lo.Uint64()}, nil
}

// ParseOffset parses a jump distance. A leading '-' yields the two's
// complement, which Jump treats as a backwards move.
func ParseOffset(s string) (Uint128, error) {
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		u, err := ParseUint128(rest)
		if err != nil {
			return Uint128{}, err
		}
		return u.Neg(), nil
	}
	return ParseUint128(s)
}
