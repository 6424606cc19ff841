package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cgt/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion is the shell completion tree, see "COMP_INSTALL=1 ukcgt".
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"transactions-file": predict.Files("*.jsonl"),
		"v":                 predict.Set{"debug", "info", "warn", "error"},
	},
	Sub: map[string]*complete.Command{
		"compute": {
			Flags: map[string]complete.Predictor{
				"f":        predict.Files("*.json*"),
				"path":     predict.Something,
				"year":     predict.Something,
				"tiebreak": predict.Set{"input", "prorata"},
				"format":   predict.Set{"md", "table", "json", "csv"},
			},
		},
		"pool": {
			Flags: map[string]complete.Predictor{
				"f":    predict.Files("*.json*"),
				"path": predict.Something,
				"d":    predict.Something,
			},
		},
		"topic": {},
		"fmt": {
			Flags: map[string]complete.Predictor{
				"f": predict.Files("*.jsonl"),
			},
		},
		"help":     {},
		"flags":    {},
		"commands": {},
	},
}

func main() {
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
