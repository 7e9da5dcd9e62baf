package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/cointax/renderer"
)

type summaryCmd struct {
	raw bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "summarize assets and monthly Income" }
func (*summaryCmd) Usage() string {
	return `cointax summary [-raw] <export.csv>...

  Displays the final quantity of each asset and the Income received each
  month, with its USD value when the exports provide it.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, s, status := run(f.Args())
	if status != subcommands.ExitSuccess {
		return status
	}
	defer s.close()

	printMarkdown(renderer.RenderSummary(renderer.NewSummary(res)), c.raw)
	return subcommands.ExitSuccess
}
