package main

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	charmlog "github.com/charmbracelet/log"
	"github.com/rs/zerolog"

	"github.com/lox/pcgrand/cmd/pcg/shared"
	"github.com/lox/pcgrand/internal/checkpoint"
	"github.com/lox/pcgrand/internal/config"
	"github.com/lox/pcgrand/pcg"
)

// entropy supplies seeds when none is given on the command line.
var entropy io.Reader = rand.Reader

// Globals are flags shared by every command.
type Globals struct {
	Config    string `help:"Config file, HCL or TOML by extension" default:"pcg.hcl" type:"path"`
	Debug     bool   `help:"Enable debug logging"`
	JSONLogs  bool   `name:"json-logs" help:"Emit structured JSON logs"`
	NoEntropy bool   `name:"no-entropy" help:"Without --seed, use the fixed default initializer instead of system entropy"`
}

func (g *Globals) logger() zerolog.Logger {
	if g.JSONLogs {
		return shared.SetupStructuredLogger(g.Debug)
	}
	return shared.SetupLogger(g.Debug)
}

func (g *Globals) serviceLogger() *charmlog.Logger {
	return shared.SetupServiceLogger(g.Debug, g.JSONLogs)
}

func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Config, err)
	}
	return cfg, nil
}

// GeneratorFlags select a generator either by profile or explicitly.
// Explicit flags override the profile's values.
type GeneratorFlags struct {
	Profile string `short:"p" help:"Named profile from the config file"`
	Variant string `help:"Output variant: xsh-rr, xsh-rs, xsl-rr or dxsm (default xsh-rr)"`
	Seed    string `short:"s" help:"Seed, decimal or 0x hex (default: system entropy)"`
	Stream  string `help:"Stream selector (default: the variant's default stream)"`
}

// params is a resolved generator choice. With fixed set the generator
// uses the default initializer and Seed is meaningless.
type params struct {
	Variant pcg.Variant
	Seed    pcg.Uint128
	Stream  pcg.Uint128
	Fixed   bool
}

func (f GeneratorFlags) resolve(g *Globals, logger zerolog.Logger) (params, error) {
	p := params{Variant: pcg.XSHRR}
	var prof *config.Profile
	var hasSeed bool

	if f.Profile != "" {
		cfg, err := g.loadConfig()
		if err != nil {
			return p, err
		}
		resolved, err := cfg.Profile(f.Profile)
		if err != nil {
			return p, err
		}
		prof = &resolved
		p.Variant = prof.Variant
	}
	if f.Variant != "" {
		v, err := pcg.ParseVariant(f.Variant)
		if err != nil {
			return p, err
		}
		if prof != nil && v.StateBits() != prof.Variant.StateBits() {
			return p, fmt.Errorf("--variant %s changes the state width of profile %s", v, prof.Name)
		}
		p.Variant = v
	}

	p.Stream = pcg.DefaultStream(p.Variant)
	if prof != nil {
		p.Stream = prof.Stream
		p.Seed, hasSeed = prof.Seed, prof.HasSeed
	}

	var err error
	if f.Stream != "" {
		if p.Stream, err = pcg.ParseUint128(f.Stream); err != nil {
			return p, fmt.Errorf("--stream: %w", err)
		}
	}
	if f.Seed != "" {
		if p.Seed, err = pcg.ParseUint128(f.Seed); err != nil {
			return p, fmt.Errorf("--seed: %w", err)
		}
		hasSeed = true
	}

	switch {
	case hasSeed:
		logger.Debug().Str("variant", p.Variant.String()).Str("seed", p.Seed.String()).Str("stream", p.Stream.String()).Msg("Using given seed")
	case g.NoEntropy:
		if f.Stream != "" {
			return p, errors.New("--stream needs --seed when --no-entropy is set")
		}
		p.Fixed = true
		p.Stream = pcg.DefaultStream(p.Variant)
		logger.Debug().Str("variant", p.Variant.String()).Msg("Using fixed default initializer")
	default:
		if p.Seed, err = drawSeed(p.Variant); err != nil {
			return p, err
		}
		logger.Info().Str("variant", p.Variant.String()).Str("seed", p.Seed.String()).Str("stream", p.Stream.String()).Msg("Using random seed")
	}

	return p, nil
}

func (p params) source() (pcg.Source, error) {
	if p.Fixed {
		return pcg.Default(p.Variant)
	}
	return pcg.New(p.Variant, p.Seed, p.Stream)
}

func (p params) meta(emitted uint64) checkpoint.Meta {
	return checkpoint.Meta{Seed: p.Seed, Stream: p.Stream, Emitted: emitted}
}

func (f GeneratorFlags) source(g *Globals, logger zerolog.Logger) (pcg.Source, params, error) {
	p, err := f.resolve(g, logger)
	if err != nil {
		return nil, p, err
	}
	src, err := p.source()
	return src, p, err
}

// drawSeed reads a seed as wide as v's state from the entropy source.
func drawSeed(v pcg.Variant) (pcg.Uint128, error) {
	var buf [16]byte
	n := v.StateBits() / 8
	if _, err := io.ReadFull(entropy, buf[:n]); err != nil {
		return pcg.Uint128{}, fmt.Errorf("reading entropy: %w", err)
	}
	if n == 8 {
		return pcg.U128(binary.BigEndian.Uint64(buf[:8])), nil
	}
	return pcg.Uint128{Hi: binary.BigEndian.Uint64(buf[:8]), Lo: binary.BigEndian.Uint64(buf[8:])}, nil
}
