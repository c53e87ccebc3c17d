package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
)

const bytesChunk = 64 * 1024

// BytesCmd streams raw generator bytes.
type BytesCmd struct {
	GeneratorFlags

	Count  int64  `arg:"" help:"Number of bytes to write"`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout"`
}

func (c *BytesCmd) Run(g *Globals) error {
	if c.Output == "" {
		return c.run(g, os.Stdout)
	}
	f, err := os.Create(filepath.Clean(c.Output))
	if err != nil {
		return err
	}
	if err := c.run(g, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *BytesCmd) run(g *Globals, w io.Writer) error {
	if c.Count < 0 {
		return errors.New("byte count cannot be negative")
	}
	logger := g.logger()
	src, _, err := c.source(g, logger)
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(w, bytesChunk)
	buf := make([]byte, bytesChunk)
	for left := c.Count; left > 0; {
		b := buf
		if left < int64(len(b)) {
			b = b[:left]
		}
		src.Fill(b)
		if _, err := bw.Write(b); err != nil {
			return err
		}
		left -= int64(len(b))
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	logger.Debug().Int64("bytes", c.Count).Str("variant", src.Variant().String()).Msg("Wrote random bytes")
	return nil
}
