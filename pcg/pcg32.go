package pcg

import (
	"encoding/binary"
	"io"
)

// Fixed initializer for PCG32, used when no seed and no entropy are supplied.
const (
	InitState32 = 0x853c49e6748fea9b
	InitInc32   = 0xda3e39cb94b95bdb
	// DefaultStream32 is the stream whose increment is InitInc32.
	DefaultStream32 = InitInc32 >> 1
)

// PCG32 is a permuted congruential generator with 64 bits of state and
// 32-bit outputs. A PCG32 is a plain value owned by one goroutine; give each
// worker its own generator on a distinct stream instead of sharing one.
//
// The zero value is not usable; construct one with NewPCG32 or a sibling.
type PCG32 struct {
	state   uint64
	inc     uint64
	variant Variant
}

// NewPCG32 returns a generator for seed on the given stream. Generators with
// equal seed, stream and variant produce identical sequences.
func NewPCG32(seed, stream uint64, opts ...Option) *PCG32 {
	p := &PCG32{variant: resolve(XSHRR, opts)}
	p.SeedStream(seed, stream)
	return p
}

// NewPCG32FromSeed returns a generator for seed on DefaultStream32.
func NewPCG32FromSeed(seed uint64, opts ...Option) *PCG32 {
	return NewPCG32(seed, DefaultStream32, opts...)
}

// NewPCG32FromSeedBytes is NewPCG32FromSeed with the seed read big-endian.
func NewPCG32FromSeedBytes(seed SeedBytes, opts ...Option) *PCG32 {
	return NewPCG32FromSeed(seed.Uint64(), opts...)
}

// DefaultPCG32 returns a generator at the fixed initializer state. It needs
// no entropy and always produces the same sequence.
func DefaultPCG32(opts ...Option) *PCG32 {
	return &PCG32{state: InitState32, inc: InitInc32, variant: resolve(XSHRR, opts)}
}

// NewPCG32FromEntropy draws a seed and stream from r. When r is nil or
// cannot supply 16 bytes the generator falls back to DefaultPCG32.
func NewPCG32FromEntropy(r io.Reader, opts ...Option) *PCG32 {
	var buf [16]byte
	if !readEntropy(r, buf[:]) {
		return DefaultPCG32(opts...)
	}
	return NewPCG32(binary.BigEndian.Uint64(buf[:8]), binary.BigEndian.Uint64(buf[8:]), opts...)
}

// Seed reinitializes p for seed on DefaultStream32.
func (p *PCG32) Seed(seed uint64) {
	p.SeedStream(seed, DefaultStream32)
}

// SeedStream reinitializes p for seed on stream. The variant is kept.
func (p *PCG32) SeedStream(seed, stream uint64) {
	p.state, p.inc = seed64(seed, stream)
}

// Next advances the state and returns the permutation of the state it
// advanced from.
func (p *PCG32) Next() uint32 {
	old := p.state
	p.state = step64(old, p.inc)
	return permute64(p.variant, old)
}

// Uint32 is Next.
func (p *PCG32) Uint32() uint32 {
	return p.Next()
}

// Uint64 joins two outputs, the first in the low half.
func (p *PCG32) Uint64() uint64 {
	lo := uint64(p.Next())
	hi := uint64(p.Next())
	return hi<<32 | lo
}

// Fill overwrites b with output words in little-endian order. A final
// partial word is truncated.
func (p *PCG32) Fill(b []byte) {
	for len(b) >= 4 {
		binary.LittleEndian.PutUint32(b, p.Next())
		b = b[4:]
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
func (p *PCG32) Read(b []byte) (int, error) {
	p.Fill(b)
	return len(b), nil
}

// Advance skips delta outputs in O(log delta) time. Stepping back by k is
// Advance(-k), which wraps around the 2^64 period.
func (p *PCG32) Advance(delta uint64) {
	p.state = advance64(p.state, p.inc, delta)
}

// Jump advances by delta mod 2^64, which is exact since the period is 2^64.
func (p *PCG32) Jump(delta Uint128) {
	p.Advance(delta.Lo)
}

// State returns the raw LCG state.
func (p *PCG32) State() uint64 { return p.state }

// Increment returns the odd LCG increment that identifies the stream.
func (p *PCG32) Increment() uint64 { return p.inc }

// Stream returns the stream selector the increment was derived from.
func (p *PCG32) Stream() uint64 { return p.inc >> 1 }

// Variant returns the output permutation in use.
func (p *PCG32) Variant() Variant { return p.variant }

// Clone returns an independent copy positioned at the same point.
func (p *PCG32) Clone() *PCG32 {
	c := *p
	return &c
}

// Equal reports whether q will produce the same sequence as p.
func (p *PCG32) Equal(q *PCG32) bool {
	return p.state == q.state && p.inc == q.inc && p.variant == q.variant
}
