// Package pcg implements the PCG family of permuted congruential random
// number generators.
//
// A generator is a linear congruential generator (LCG) whose raw state is
// never emitted. Each call advances
//
//	state = state*multiplier + increment  (mod 2^W)
//
// and passes a state through a fixed bit permutation to produce the output
// word. The increment is always odd, which gives every stream the full
// period 2^W, and distinct increments select disjoint streams.
//
// Two widths are provided:
//
//	PCG32  64-bit state, 32-bit output, variants XSHRR (default) and XSHRS
//	PCG64  128-bit state, 64-bit output, variants XSLRR (default) and DXSM
//
// Outputs are bit-exact with the reference C implementation: NewPCG32(42, 54)
// starts 0xa15c02b7, 0x7b47f409 and NewPCG64(U128(42), U128(54)) starts
// 0x86b1da1d72062b68.
//
// The package does not read ambient entropy. Entropy, when wanted, is
// passed in as an io.Reader such as crypto/rand.Reader, and constructors
// fall back to a fixed initializer when it is missing.
//
// Generators are not safe for concurrent use. These are not cryptographic
// generators.
package pcg
