// Package checkpoint persists generator state so a run can be stopped and
// resumed bit-for-bit.
//
// A Checkpoint wraps the generator's own binary encoding (see
// pcg.PCG32.MarshalBinary) with descriptive metadata and is stored as a
// msgpack map. Unknown map keys are skipped on decode so fields can be added
// without breaking older files.
package checkpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lox/pcgrand/pcg"
)

// ErrVariantMismatch is returned when the recorded variant disagrees with
// the encoded generator state.
var ErrVariantMismatch = errors.New("checkpoint: variant does not match state")

// Checkpoint is a resumable snapshot of one generator.
type Checkpoint struct {
	ID        string    `msg:"id"`
	Variant   string    `msg:"variant"`
	Seed      string    `msg:"seed"`
	Stream    string    `msg:"stream"`
	Emitted   uint64    `msg:"emitted"`
	CreatedAt time.Time `msg:"created_at"`
	State     []byte    `msg:"state"`
}

// Meta describes where a generator came from. It is informational; the
// State bytes alone determine the resumed sequence.
type Meta struct {
	Seed    pcg.Uint128
	Stream  pcg.Uint128
	Emitted uint64
}

// Capture snapshots src.
func Capture(src pcg.Source, meta Meta) (*Checkpoint, error) {
	state, err := src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode generator: %w", err)
	}
	return &Checkpoint{
		ID:        uuid.NewString(),
		Variant:   src.Variant().String(),
		Seed:      meta.Seed.String(),
		Stream:    meta.Stream.String(),
		Emitted:   meta.Emitted,
		CreatedAt: time.Now().UTC(),
		State:     state,
	}, nil
}

// Restore rebuilds the generator at the captured position.
func (c *Checkpoint) Restore() (pcg.Source, error) {
	src, err := pcg.Restore(c.State)
	if err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", c.ID, err)
	}
	if c.Variant != "" && src.Variant().String() != c.Variant {
		return nil, fmt.Errorf("%w: recorded %s, state has %s", ErrVariantMismatch, c.Variant, src.Variant())
	}
	return src, nil
}

// Advance records that n more outputs were consumed and refreshes the
// state from src.
func (c *Checkpoint) Advance(src pcg.Source, n uint64) error {
	state, err := src.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode generator: %w", err)
	}
	c.State = state
	c.Emitted += n
	c.CreatedAt = time.Now().UTC()
	return nil
}
