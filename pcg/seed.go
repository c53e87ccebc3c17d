package pcg

import (
	"encoding/binary"
	"io"
)

// SeedBytes is a 64-bit seed as bytes, most significant byte first.
type SeedBytes [8]byte

// SeedBytesFromUint64 is the inverse of SeedBytes.Uint64.
func SeedBytesFromUint64(v uint64) SeedBytes {
	var s SeedBytes
	binary.BigEndian.PutUint64(s[:], v)
	return s
}

// Uint64 packs the bytes big-endian.
func (s SeedBytes) Uint64() uint64 {
	return binary.BigEndian.Uint64(s[:])
}

// readEntropy fills buf from r, reporting false when r is absent or fails.
// Absence is a configuration choice, so callers fall back to a fixed
// initializer rather than returning an error.
func readEntropy(r io.Reader, buf []byte) bool {
	if r == nil {
		return false
	}
	_, err := io.ReadFull(r, buf)
	return err == nil
}
