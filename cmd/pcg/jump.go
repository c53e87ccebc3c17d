package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/pcgrand/pcg"
)

// JumpCmd shows what a jump does to a generator's state.
type JumpCmd struct {
	GeneratorFlags

	Steps string `arg:"" help:"Outputs to jump, decimal or 0x hex; a leading '-' jumps backwards"`
}

func (c *JumpCmd) Run(g *Globals) error {
	return c.run(g, os.Stdout)
}

func (c *JumpCmd) run(g *Globals, w io.Writer) error {
	delta, err := pcg.ParseOffset(c.Steps)
	if err != nil {
		return err
	}
	src, _, err := c.source(g, g.logger())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "variant   %s\n", src.Variant())
	fmt.Fprintf(w, "increment %s\n", increment(src))
	fmt.Fprintf(w, "before    %s\n", state(src))
	src.Jump(delta)
	fmt.Fprintf(w, "after     %s\n", state(src))
	if src.Variant().OutputBits() == 32 {
		fmt.Fprintf(w, "next      %08x\n", src.Uint32())
	} else {
		fmt.Fprintf(w, "next      %016x\n", src.Uint64())
	}
	return nil
}

func state(src pcg.Source) string {
	switch p := src.(type) {
	case *pcg.PCG32:
		return fmt.Sprintf("0x%016x", p.State())
	case *pcg.PCG64:
		return p.State().Hex()
	}
	return "?"
}

func increment(src pcg.Source) string {
	switch p := src.(type) {
	case *pcg.PCG32:
		return fmt.Sprintf("0x%016x", p.Increment())
	case *pcg.PCG64:
		return p.Increment().Hex()
	}
	return "?"
}
