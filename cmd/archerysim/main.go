package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Debug   bool `help:"Enable debug logging" env:"ARCHERYSIM_DEBUG"`
	NoColor bool `help:"Disable colored output" env:"NO_COLOR"`
	JSON    bool `help:"Write results as JSON" env:"ARCHERYSIM_JSON"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Run      RunCmd           `cmd:"" default:"withargs" help:"Generate a validated stream and simulate a tournament"`
	Validate ValidateCmd      `cmd:"" help:"Run the uniformity tests against configurations or a numbers file"`
	Generate GenerateCmd      `cmd:"" help:"Generate a validated stream and write it to a numbers file"`
	History  HistoryCmd       `cmd:"" help:"List archived runs"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("archerysim"),
		kong.Description("Archery tournament simulator driven by validated LCG number streams"),
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
