package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/cointax/cmd"
)

func main() {
	completion().Complete("cointax")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion. It is only
// active when the shell sets COMP_LINE, see "COMP_INSTALL=1 cointax".
func completion() *complete.Command {
	exports := predict.Files("*.csv")
	global := map[string]complete.Predictor{"config": predict.Files("*.yaml")}
	withGlobal := func(flags map[string]complete.Predictor) map[string]complete.Predictor {
		for k, v := range global {
			flags[k] = v
		}
		return flags
	}
	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"process": {Flags: withGlobal(map[string]complete.Predictor{"o": predict.Files("*.csv")}), Args: exports},
			"check":   {Flags: withGlobal(map[string]complete.Predictor{"raw": predict.Nothing}), Args: exports},
			"summary": {Flags: withGlobal(map[string]complete.Predictor{"raw": predict.Nothing}), Args: exports},
			"query":   {Flags: withGlobal(map[string]complete.Predictor{"path": predict.Something}), Args: exports},
			"topic":   {Flags: map[string]complete.Predictor{"raw": predict.Nothing}, Args: predict.Set(cmd.Topics())},
			"help":    {Args: predict.Set([]string{"process", "check", "summary", "query", "topic"})},
		},
	}
}
