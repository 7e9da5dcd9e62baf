package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/cointax/tokentax"
)

type processCmd struct {
	output string
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "convert exports into a tax ledger CSV" }
func (*processCmd) Usage() string {
	return `cointax process [-o <file>] <export.csv>...

  Reads the exports, consolidates and classifies their lines, and writes the
  tax records in the TokenTax CSV layout. The Comment column of each record
  locates its export line, see "cointax topic provenance".

Usage Examples:
# Writes the records to taxes.csv.
$ cointax process -o taxes.csv statement.csv us.csv

`
}

func (p *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Output file. Defaults to stdout.")
}

func (p *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, s, status := run(f.Args())
	if status != subcommands.ExitSuccess {
		return status
	}
	defer s.close()

	var w io.Writer = stdout
	if p.output != "" {
		file, err := os.Create(p.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := tokentax.Write(w, res.Records, s.cfg.Output.DateFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	s.log.Info().Int("records", len(res.Records)).Str("output", p.output).Msg("tax ledger written")
	return subcommands.ExitSuccess
}
