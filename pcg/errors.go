package pcg

import "errors"

var (
	// ErrInvalidEncoding is returned when persisted state is malformed.
	ErrInvalidEncoding = errors.New("pcg: invalid state encoding")
	// ErrEvenIncrement is returned when persisted state carries an even
	// increment, which would break the full-period guarantee.
	ErrEvenIncrement = errors.New("pcg: increment must be odd")
	// ErrUnknownVariant is returned for variant names or codes outside the
	// supported set.
	ErrUnknownVariant = errors.New("pcg: unknown variant")
	// ErrSeedRange is returned when a seed or stream does not fit the
	// state width of the requested variant.
	ErrSeedRange = errors.New("pcg: seed out of range for variant")
)
