package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Analyze AnalyzeCmd       `cmd:"" help:"Parse PokerNow logs into analyzed datasets"`
	Stats   StatsCmd         `cmd:"" help:"Show player statistics for analyzed datasets"`
	Merge   MergeCmd         `cmd:"" help:"Merge analyzed datasets across sessions"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokernow-analyzer"),
		kong.Description("Reconstructs hands and player statistics from PokerNow game logs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
