package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lox/pcgrand/internal/randutil"
	"github.com/lox/pcgrand/pcg"
)

// OutputFlags control how outputs are printed.
type OutputFlags struct {
	Count  int    `short:"n" default:"10" help:"Number of outputs"`
	Format string `short:"f" enum:"hex,dec,float" default:"hex" help:"Output format: hex, dec or float"`
	Below  uint64 `help:"Print uniform integers in [0, below) instead of raw outputs"`
}

// print writes the outputs one per line and returns how many native words
// were consumed.
func (o OutputFlags) print(w io.Writer, src pcg.Source) (uint64, error) {
	bw := bufio.NewWriter(w)
	r := randutil.Wrap(src)
	narrow := src.Variant().OutputBits() == 32

	var words uint64
	for i := 0; i < o.Count; i++ {
		switch {
		case o.Below > 0:
			fmt.Fprintln(bw, r.Uint64N(o.Below))
			// Uint64N may reject and redraw, so this is a lower bound.
			words += wordsPer64(narrow)
		case o.Format == "float":
			fmt.Fprintf(bw, "%.17g\n", r.Float64())
			words += wordsPer64(narrow)
		case narrow:
			x := src.Uint32()
			if o.Format == "dec" {
				fmt.Fprintln(bw, x)
			} else {
				fmt.Fprintf(bw, "%08x\n", x)
			}
			words++
		default:
			x := src.Uint64()
			if o.Format == "dec" {
				fmt.Fprintln(bw, x)
			} else {
				fmt.Fprintf(bw, "%016x\n", x)
			}
			words++
		}
	}
	return words, bw.Flush()
}

func wordsPer64(narrow bool) uint64 {
	if narrow {
		return 2
	}
	return 1
}
