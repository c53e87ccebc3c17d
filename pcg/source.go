package pcg

import (
	"fmt"
	"io"
)

// Source is the word-producing interface sampling code consumes. Both
// generators implement it, and since it includes Uint64 any Source can be
// handed to rand.New from math/rand/v2 as is.
type Source interface {
	Uint32() uint32
	Uint64() uint64
	Read(p []byte) (int, error)
	Fill(p []byte)
	// Jump advances the generator by delta outputs modulo its period.
	Jump(delta Uint128)
	Variant() Variant
	MarshalBinary() ([]byte, error)
}

var (
	_ Source = (*PCG32)(nil)
	_ Source = (*PCG64)(nil)
)

// New builds the generator for v. Seeds and streams for 64-bit-state
// variants must fit in 64 bits.
func New(v Variant, seed, stream Uint128) (Source, error) {
	switch v.StateBits() {
	case 64:
		if seed.Hi != 0 || stream.Hi != 0 {
			return nil, fmt.Errorf("%w: %v takes 64-bit seeds", ErrSeedRange, v)
		}
		return NewPCG32(seed.Lo, stream.Lo, WithVariant(v)), nil
	case 128:
		return NewPCG64(seed, stream, WithVariant(v)), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, v)
}

// Default returns the fixed-initializer generator for v.
func Default(v Variant) (Source, error) {
	switch v.StateBits() {
	case 64:
		return DefaultPCG32(WithVariant(v)), nil
	case 128:
		return DefaultPCG64(WithVariant(v)), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, v)
}

// FromEntropy seeds the generator for v from r, falling back to the fixed
// initializer when r is nil or short.
func FromEntropy(v Variant, r io.Reader) (Source, error) {
	switch v.StateBits() {
	case 64:
		return NewPCG32FromEntropy(r, WithVariant(v)), nil
	case 128:
		return NewPCG64FromEntropy(r, WithVariant(v)), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownVariant, v)
}

// DefaultStream is the stream selected by the fixed initializer of v's
// width, used when a seed is given without a stream.
func DefaultStream(v Variant) Uint128 {
	if v.StateBits() == 64 {
		return U128(DefaultStream32)
	}
	return DefaultStream64
}

// Restore decodes state written by either generator's MarshalBinary.
func Restore(data []byte) (Source, error) {
	if len(data) < encHeader {
		return nil, ErrInvalidEncoding
	}
	switch data[len(encMagic)] {
	case 64:
		p := new(PCG32)
		if err := p.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return p, nil
	case 128:
		p := new(PCG64)
		if err := p.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: state width %d", ErrInvalidEncoding, data[len(encMagic)])
}
