package pcg

import (
	"encoding/binary"
	"fmt"
)

// Persisted layout, stable across versions:
//
//	[0:4]  "pcg:"
//	[4]    state width in bits (64 or 128)
//	[5]    Variant
//	[6:]   state, then increment, each big-endian at the state width
//
// PCG32 encodes to 22 bytes and PCG64 to 38.
const (
	encMagic  = "pcg:"
	encHeader = len(encMagic) + 2
	encLen32  = encHeader + 16
	encLen64  = encHeader + 32
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *PCG32) MarshalBinary() ([]byte, error) {
	b := make([]byte, encLen32)
	copy(b, encMagic)
	b[4] = 64
	b[5] = byte(p.variant)
	binary.BigEndian.PutUint64(b[6:], p.state)
	binary.BigEndian.PutUint64(b[14:], p.inc)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. On error p is left
// unchanged.
func (p *PCG32) UnmarshalBinary(data []byte) error {
	v, err := checkHeader(data, encLen32, 64)
	if err != nil {
		return err
	}
	inc := binary.BigEndian.Uint64(data[14:])
	if inc&1 == 0 {
		return ErrEvenIncrement
	}
	p.state = binary.BigEndian.Uint64(data[6:])
	p.inc = inc
	p.variant = v
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *PCG64) MarshalBinary() ([]byte, error) {
	b := make([]byte, encLen64)
	copy(b, encMagic)
	b[4] = 128
	b[5] = byte(p.variant)
	binary.BigEndian.PutUint64(b[6:], p.state.Hi)
	binary.BigEndian.PutUint64(b[14:], p.state.Lo)
	binary.BigEndian.PutUint64(b[22:], p.inc.Hi)
	binary.BigEndian.PutUint64(b[30:], p.inc.Lo)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. On error p is left
// unchanged.
func (p *PCG64) UnmarshalBinary(data []byte) error {
	v, err := checkHeader(data, encLen64, 128)
	if err != nil {
		return err
	}
	inc := Uint128{Hi: binary.BigEndian.Uint64(data[22:]), Lo: binary.BigEndian.Uint64(data[30:])}
	if !inc.Odd() {
		return ErrEvenIncrement
	}
	p.state = Uint128{Hi: binary.BigEndian.Uint64(data[6:]), Lo: binary.BigEndian.Uint64(data[14:])}
	p.inc = inc
	p.variant = v
	return nil
}

func checkHeader(data []byte, size int, width byte) (Variant, error) {
	if len(data) != size || string(data[:len(encMagic)]) != encMagic {
		return 0, ErrInvalidEncoding
	}
	if data[4] != width {
		return 0, fmt.Errorf("%w: state width %d, want %d", ErrInvalidEncoding, data[4], width)
	}
	v := Variant(data[5])
	if v.StateBits() != int(width) {
		return 0, fmt.Errorf("%w: variant %v for %d-bit state", ErrInvalidEncoding, v, width)
	}
	return v, nil
}
