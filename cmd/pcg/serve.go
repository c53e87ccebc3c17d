package main

import (
	"github.com/lox/pcgrand/cmd/pcg/shared"
	"github.com/lox/pcgrand/internal/streamsrv"
	"github.com/lox/pcgrand/pcg"
)

// ServeCmd runs the websocket stream server until interrupted.
type ServeCmd struct {
	Addr    string `help:"Listen address (default: server block of the config file)"`
	Variant string `help:"Variant for new connections (default: server block of the config file)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	logger := g.logger()
	srv, err := c.build(g)
	if err != nil {
		return err
	}
	ctx := shared.SetupSignalHandlerWithLogger(logger)
	return srv.Start(ctx)
}

func (c *ServeCmd) build(g *Globals) (*streamsrv.Server, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.Server.Addr()
	}
	name := c.Variant
	if name == "" {
		name = cfg.Server.Variant
	}
	v, err := pcg.ParseVariant(name)
	if err != nil {
		return nil, err
	}

	srvCfg := streamsrv.Config{Addr: addr, Variant: v}
	if !g.NoEntropy {
		srvCfg.Entropy = entropy
	}
	return streamsrv.NewServer(srvCfg, g.serviceLogger()), nil
}
