package pcg

import (
	"encoding/binary"
	"io"
)

// Fixed initializer for PCG64.
var (
	InitState64 = Uint128{Hi: 0x979c9a98d8462005, Lo: 0x7d3e9cb6cfe0549b}
	InitInc64   = Uint128{Hi: 0x0000000000000001, Lo: 0xda3e39cb94b95bdb}
	// DefaultStream64 is the stream whose increment is InitInc64.
	DefaultStream64 = InitInc64.Rsh(1)
)

// PCG64 is a permuted congruential generator with 128 bits of state and
// 64-bit outputs. Like PCG32 it is a single-owner value.
//
// Unlike PCG32, it permutes the state after advancing it, which is what the
// reference 128-bit generators do.
type PCG64 struct {
	state   Uint128
	inc     Uint128
	variant Variant
}

// NewPCG64 returns a generator for seed on the given stream.
func NewPCG64(seed, stream Uint128, opts ...Option) *PCG64 {
	p := &PCG64{variant: resolve(XSLRR, opts)}
	p.SeedStream(seed, stream)
	return p
}

// NewPCG64FromSeed returns a generator for seed on DefaultStream64.
func NewPCG64FromSeed(seed Uint128, opts ...Option) *PCG64 {
	return NewPCG64(seed, DefaultStream64, opts...)
}

// DefaultPCG64 returns a generator at the fixed initializer state.
func DefaultPCG64(opts ...Option) *PCG64 {
	return &PCG64{state: InitState64, inc: InitInc64, variant: resolve(XSLRR, opts)}
}

// NewPCG64FromEntropy draws a 128-bit seed and stream from r, falling back
// to DefaultPCG64 when r is nil or short.
func NewPCG64FromEntropy(r io.Reader, opts ...Option) *PCG64 {
	var buf [32]byte
	if !readEntropy(r, buf[:]) {
		return DefaultPCG64(opts...)
	}
	seed := Uint128{Hi: binary.BigEndian.Uint64(buf[0:]), Lo: binary.BigEndian.Uint64(buf[8:])}
	stream := Uint128{Hi: binary.BigEndian.Uint64(buf[16:]), Lo: binary.BigEndian.Uint64(buf[24:])}
	return NewPCG64(seed, stream, opts...)
}

// Seed reinitializes p for seed on DefaultStream64.
func (p *PCG64) Seed(seed Uint128) {
	p.SeedStream(seed, DefaultStream64)
}

// SeedStream reinitializes p for seed on stream. The top bit of stream is
// discarded when the increment is formed.
func (p *PCG64) SeedStream(seed, stream Uint128) {
	p.state, p.inc = seed128(seed, stream)
}

// Next advances the state and returns the permutation of the new state.
func (p *PCG64) Next() uint64 {
	p.state = step128(p.state, p.inc)
	return permute128(p.variant, p.state)
}

// Uint64 is Next.
func (p *PCG64) Uint64() uint64 {
	return p.Next()
}

// Uint32 returns the low half of one output.
func (p *PCG64) Uint32() uint32 {
	return uint32(p.Next())
}

// Fill overwrites b with output words in little-endian order, truncating
// the final word.
func (p *PCG64) Fill(b []byte) {
	for len(b) >= 8 {
		binary.LittleEndian.PutUint64(b, p.Next())
		b = b[8:]
	}
	if len(b) > 0 {
		v := p.Next()
		for i := range b {
			b[i] = byte(v)
			v >>= 8
		}
	}
}

// Read implements io.Reader. It always fills b and never fails.
func (p *PCG64) Read(b []byte) (int, error) {
	p.Fill(b)
	return len(b), nil
}

// Advance skips delta outputs in O(log delta) time. Use delta.Neg() to step
// back.
func (p *PCG64) Advance(delta Uint128) {
	p.state = advance128(p.state, p.inc, delta)
}

// Jump is Advance.
func (p *PCG64) Jump(delta Uint128) {
	p.Advance(delta)
}

// State returns the raw LCG state.
func (p *PCG64) State() Uint128 { return p.state }

// Increment returns the odd LCG increment.
func (p *PCG64) Increment() Uint128 { return p.inc }

// Stream returns the stream selector the increment was derived from.
func (p *PCG64) Stream() Uint128 { return p.inc.Rsh(1) }

// Variant returns the output permutation in use.
func (p *PCG64) Variant() Variant { return p.variant }

// Clone returns an independent copy.
func (p *PCG64) Clone() *PCG64 {
	c := *p
	return &c
}

// Equal reports whether q will produce the same sequence as p.
func (p *PCG64) Equal(q *PCG64) bool {
	return p.state == q.state && p.inc == q.inc && p.variant == q.variant
}
