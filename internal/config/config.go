// Package config loads pcg settings and named generator profiles from HCL
// or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pcgrand/pcg"
)

const (
	defaultLogLevel      = "info"
	defaultCheckpointDir = ".pcg"
	defaultAddress       = "localhost"
	defaultPort          = 8080
)

// ErrUnknownProfile is returned by Profile for names not in the file.
var ErrUnknownProfile = errors.New("config: unknown profile")

// Config represents the complete configuration
type Config struct {
	LogLevel      string          `hcl:"log_level,optional" toml:"log_level"`
	CheckpointDir string          `hcl:"checkpoint_dir,optional" toml:"checkpoint_dir"`
	Server        *ServerSettings `hcl:"server,block" toml:"server"`
	Profiles      []ProfileConfig `hcl:"profile,block" toml:"profile"`
}

// ServerSettings configures the stream server
type ServerSettings struct {
	Address string `hcl:"address,optional" toml:"address"`
	Port    int    `hcl:"port,optional" toml:"port"`
	Variant string `hcl:"variant,optional" toml:"variant"`
}

// ProfileConfig names a generator. Seed and Stream are strings so 128-bit
// values survive both file formats; decimal and 0x hex are accepted.
type ProfileConfig struct {
	Name    string `hcl:"name,label" toml:"name"`
	Variant string `hcl:"variant,optional" toml:"variant"`
	Seed    string `hcl:"seed,optional" toml:"seed"`
	Stream  string `hcl:"stream,optional" toml:"stream"`
}

// Profile is a resolved ProfileConfig. With HasSeed false the caller picks
// the seed, typically from system entropy.
type Profile struct {
	Name    string
	Variant pcg.Variant
	Seed    pcg.Uint128
	Stream  pcg.Uint128
	HasSeed bool
}

// Addr joins the server address and port.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      defaultLogLevel,
		CheckpointDir: defaultCheckpointDir,
		Server: &ServerSettings{
			Address: defaultAddress,
			Port:    defaultPort,
			Variant: pcg.XSHRR.String(),
		},
	}
}

// Load reads filename as TOML when it ends in .toml and as HCL otherwise.
// A missing file yields DefaultConfig.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		if _, err := toml.DecodeFile(filename, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML: %w", err)
		}
	default:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		diags = gohcl.DecodeBody(file.Body, nil, &cfg)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.CheckpointDir == "" {
		c.CheckpointDir = defaultCheckpointDir
	}
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.Variant == "" {
		c.Server.Variant = pcg.XSHRR.String()
	}
	for i := range c.Profiles {
		if c.Profiles[i].Variant == "" {
			c.Profiles[i].Variant = pcg.XSHRR.String()
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	if c.Server != nil {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid port: %d", c.Server.Port)
		}
		if _, err := pcg.ParseVariant(c.Server.Variant); err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	seen := make(map[string]bool)
	for _, p := range c.Profiles {
		if p.Name == "" {
			return errors.New("profile name cannot be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate profile: %s", p.Name)
		}
		seen[p.Name] = true
		if _, err := p.Resolve(); err != nil {
			return err
		}
	}
	return nil
}

// Profile resolves the named profile.
func (c *Config) Profile(name string) (Profile, error) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p.Resolve()
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
}

// Resolve parses the profile's variant, seed and stream. A missing stream
// selects the variant's default stream.
func (p ProfileConfig) Resolve() (Profile, error) {
	v, err := pcg.ParseVariant(p.Variant)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	out := Profile{Name: p.Name, Variant: v, Stream: pcg.DefaultStream(v)}

	if p.Stream != "" {
		if out.Stream, err = pcg.ParseUint128(p.Stream); err != nil {
			return Profile{}, fmt.Errorf("profile %s stream: %w", p.Name, err)
		}
	}
	if p.Seed != "" {
		if out.Seed, err = pcg.ParseUint128(p.Seed); err != nil {
			return Profile{}, fmt.Errorf("profile %s seed: %w", p.Name, err)
		}
		out.HasSeed = true
	}
	if v.StateBits() == 64 && (out.Seed.Hi != 0 || out.Stream.Hi != 0) {
		return Profile{}, fmt.Errorf("profile %s: %w", p.Name, pcg.ErrSeedRange)
	}
	return out, nil
}

// Source builds the profile's generator. It requires HasSeed.
func (p Profile) Source() (pcg.Source, error) {
	if !p.HasSeed {
		return nil, fmt.Errorf("profile %s has no seed", p.Name)
	}
	return pcg.New(p.Variant, p.Seed, p.Stream)
}
