package pcg

import "fmt"

// Option configures a generator at construction.
type Option func(*options)

type options struct {
	variant Variant
}

// WithVariant selects the output permutation. Passing a variant whose state
// width does not match the generator panics.
func WithVariant(v Variant) Option {
	return func(o *options) {
		o.variant = v
	}
}

func resolve(def Variant, opts []Option) Variant {
	o := options{variant: def}
	for _, opt := range opts {
		opt(&o)
	}
	if o.variant.StateBits() != def.StateBits() {
		panic(fmt.Sprintf("pcg: variant %v needs a %d-bit state, generator has %d", o.variant, o.variant.StateBits(), def.StateBits()))
	}
	return o.variant
}
