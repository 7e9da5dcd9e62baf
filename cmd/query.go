package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"

	"github.com/etnz/cointax"
)

type queryCmd struct {
	path string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a jsonpath over the tax records" }
func (*queryCmd) Usage() string {
	return `cointax query -path <jsonpath> <export.csv>...

  Evaluates a jsonpath expression over the JSON form of the result:

    {"run_id": ..., "records": [{"type": "Income", "buy_amount": 1.5, ...}], "counters": {...}}

Usage Examples:
# Lists the provenance of every Trade.
$ cointax query -path '$.records[?(@.type=="Trade")].comment' statement.csv

`
}

func (q *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&q.path, "path", "$.records", "jsonpath expression.")
}

func (q *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	res, s, status := run(f.Args())
	if status != subcommands.ExitSuccess {
		return status
	}
	defer s.close()

	val, err := query(res, q.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(val); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// query evaluates path over the JSON form of res. Numbers are kept as
// json.Number to preserve their precision.
func query(res *cointax.Result, path string) (any, error) {
	b, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var obj any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	val, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return val, nil
}
