package main

import (
	"io"
	"os"

	"github.com/lox/pcgrand/pcg"
)

// GenCmd prints outputs from one generator.
type GenCmd struct {
	GeneratorFlags
	OutputFlags

	Skip string `help:"Jump this many outputs ahead before printing; negative jumps back"`
}

func (c *GenCmd) Run(g *Globals) error {
	return c.run(g, os.Stdout)
}

func (c *GenCmd) run(g *Globals, w io.Writer) error {
	logger := g.logger()
	src, _, err := c.source(g, logger)
	if err != nil {
		return err
	}
	if c.Skip != "" {
		delta, err := pcg.ParseOffset(c.Skip)
		if err != nil {
			return err
		}
		src.Jump(delta)
	}
	_, err = c.print(w, src)
	return err
}
