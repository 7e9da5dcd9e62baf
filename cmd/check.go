package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/cointax/renderer"
)

type checkCmd struct {
	raw bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate exports and report the pipeline counters" }
func (*checkCmd) Usage() string {
	return `cointax check [-raw] <export.csv>...

  Runs the whole conversion without writing anything, and reports how many
  lines went through each stage and the quantity of each asset. Fails on the
  first unknown operation or inconsistent line.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown.")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, s, status := run(f.Args())
	if status != subcommands.ExitSuccess {
		return status
	}
	defer s.close()

	printMarkdown(renderer.RenderCheck(renderer.NewSummary(res)), c.raw)
	return subcommands.ExitSuccess
}
