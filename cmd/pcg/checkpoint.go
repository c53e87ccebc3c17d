package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lox/pcgrand/internal/checkpoint"
	"github.com/lox/pcgrand/pcg"
)

// CheckpointCmd groups the checkpoint subcommands.
type CheckpointCmd struct {
	Save   CheckpointSaveCmd   `cmd:"" help:"Write a generator's state to a checkpoint file"`
	Resume CheckpointResumeCmd `cmd:"" help:"Continue a generator from a checkpoint file"`
}

// CheckpointSaveCmd captures a fresh or fast-forwarded generator.
type CheckpointSaveCmd struct {
	GeneratorFlags

	Skip   uint64 `help:"Jump this many outputs ahead before saving"`
	Output string `short:"o" type:"path" help:"Checkpoint path (default: <checkpoint_dir>/<id>.ckpt)"`
}

func (c *CheckpointSaveCmd) Run(g *Globals) error {
	return c.run(g, os.Stdout)
}

func (c *CheckpointSaveCmd) run(g *Globals, w io.Writer) error {
	logger := g.logger()
	src, p, err := c.source(g, logger)
	if err != nil {
		return err
	}

	src.Jump(pcg.U128(c.Skip))

	cp, err := checkpoint.Capture(src, p.meta(c.Skip))
	if err != nil {
		return err
	}

	path := c.Output
	if path == "" {
		cfg, err := g.loadConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.CheckpointDir, 0o755); err != nil {
			return fmt.Errorf("creating checkpoint dir: %w", err)
		}
		path = filepath.Join(cfg.CheckpointDir, cp.ID+".ckpt")
	}
	if err := checkpoint.Save(path, cp); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}

	logger.Info().Str("id", cp.ID).Str("path", path).Str("variant", cp.Variant).Msg("Checkpoint saved")
	fmt.Fprintln(w, path)
	return nil
}

// CheckpointResumeCmd prints the outputs that follow a checkpoint.
type CheckpointResumeCmd struct {
	OutputFlags

	Path   string `arg:"" type:"existingfile" help:"Checkpoint file"`
	Update bool   `help:"Write the advanced state back to the file"`
}

func (c *CheckpointResumeCmd) Run(g *Globals) error {
	return c.run(g, os.Stdout)
}

func (c *CheckpointResumeCmd) run(g *Globals, w io.Writer) error {
	logger := g.logger()
	cp, err := checkpoint.Load(c.Path)
	if err != nil {
		return err
	}
	src, err := cp.Restore()
	if err != nil {
		return err
	}
	logger.Debug().
		Str("id", cp.ID).
		Str("variant", cp.Variant).
		Uint64("emitted", cp.Emitted).
		Time("created_at", cp.CreatedAt).
		Msg("Resuming checkpoint")

	words, err := c.print(w, src)
	if err != nil {
		return err
	}
	if !c.Update {
		return nil
	}
	if err := cp.Advance(src, words); err != nil {
		return err
	}
	if err := checkpoint.Save(c.Path, cp); err != nil {
		return fmt.Errorf("updating checkpoint: %w", err)
	}
	logger.Info().Str("id", cp.ID).Uint64("emitted", cp.Emitted).Msg("Checkpoint updated")
	return nil
}
