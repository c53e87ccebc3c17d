package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Gen        GenCmd           `cmd:"" help:"Print generator outputs"`
	Bytes      BytesCmd         `cmd:"" help:"Write random bytes to stdout or a file"`
	Jump       JumpCmd          `cmd:"" help:"Show generator state before and after a jump"`
	Checkpoint CheckpointCmd    `cmd:"" help:"Save and resume generator state"`
	Stats      StatsCmd         `cmd:"" help:"Run statistical smoke tests on a generator"`
	Bench      BenchCmd         `cmd:"" help:"Measure throughput across parallel streams"`
	Serve      ServeCmd         `cmd:"" help:"Serve random bytes over websocket"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pcg"),
		kong.Description("Permuted congruential generators: sampling, jump-ahead, checkpoints and serving"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
