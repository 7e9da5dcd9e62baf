package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
)

const statementCSV = `User_ID,UTC_Time,Account,Operation,Coin,Change,Remark
12345,2021-05-01 08:00:00,Spot,Buy,BNB,0.1,
12345,2021-05-01 08:00:00,Spot,Transaction Related,USDT,-30,
12345,2021-05-01 08:00:00,Spot,Fee,BNB,-0.0001,
12345,2021-05-02 10:00:00,Spot,Commission History,BNB,0.00002,
12345,2021-05-02 11:00:00,Spot,Commission History,BNB,0.00003,
`

// export writes the statement fixture in a temporary directory.
func export(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	if err := os.WriteFile(path, []byte(statementCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs c with args and returns its status and standard output.
func execute(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	t.Setenv("COINTAX_LOG_LEVEL", "error")
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })
	return c.Execute(context.Background(), f), buf.String()
}

func TestProcess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "taxes.csv")
	status, _ := execute(t, &processCmd{}, "-o", out, export(t))
	if status != subcommands.ExitSuccess {
		t.Fatalf("process status = %v", status)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	want := []string{
		"Type,BuyAmount,BuyCurrency,SellAmount,SellCurrency,FeeAmount,FeeCurrency,Exchange,Group,Comment,Date",
		"Trade,0.1,BNB,30,USDT,0.0001,BNB,binance.com,,\"st1,0,2,Spot,Buy\",2021-05-01T08:00:00.000Z",
		"Income,0.00005,BNB,,,,,binance.com,,\"st1,0,6,Spot,Commission History\",2021-05-02T11:00:00.000Z",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("process output mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_Errors(t *testing.T) {
	if status, _ := execute(t, &processCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("no file: status = %v, want %v", status, subcommands.ExitUsageError)
	}
	missing := filepath.Join(t.TempDir(), "missing.csv")
	if status, _ := execute(t, &processCmd{}, missing); status != subcommands.ExitFailure {
		t.Errorf("missing file: status = %v, want %v", status, subcommands.ExitFailure)
	}
}

func TestCheck(t *testing.T) {
	status, out := execute(t, &checkCmd{}, "-raw", export(t))
	if status != subcommands.ExitSuccess {
		t.Fatalf("check status = %v", status)
	}
	for _, want := range []string{"# Tax Ledger", "| Read | 5 |", "| Aligned | 3 |", "| Window consolidated | 2 |", "| Trade | 1 |", "| Income | 1 |", "| BNB | 0.09995 | 3 | 2 |", "| USDT | -30 | 0 | 0 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output does not contain %q:\n%s", want, out)
		}
	}
}

func TestSummary(t *testing.T) {
	status, out := execute(t, &summaryCmd{}, "-raw", export(t))
	if status != subcommands.ExitSuccess {
		t.Fatalf("summary status = %v", status)
	}
	if !strings.Contains(out, "2021-05") {
		t.Errorf("summary output does not list the month:\n%s", out)
	}
}

func TestQuery(t *testing.T) {
	status, out := execute(t, &queryCmd{}, "-path", `$.records[?(@.type=="Income")].comment`, export(t))
	if status != subcommands.ExitSuccess {
		t.Fatalf("query status = %v", status)
	}
	var got []string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("query output is not a string list: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"st1,0,6,Spot,Commission History"}, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}

	if status, _ := execute(t, &queryCmd{}, "-path", "$.records[?(", export(t)); status != subcommands.ExitFailure {
		t.Errorf("invalid path: status = %v, want %v", status, subcommands.ExitFailure)
	}
}

func TestTopic(t *testing.T) {
	status, out := execute(t, &topicCmd{}, "-raw", "provenance")
	if status != subcommands.ExitSuccess {
		t.Fatalf("topic status = %v", status)
	}
	if !strings.HasPrefix(out, "#") {
		t.Errorf("topic output is not a markdown document:\n%s", out)
	}
	if status, _ := execute(t, &topicCmd{}, "no-such-topic"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic: status = %v, want %v", status, subcommands.ExitFailure)
	}
	if len(Topics()) == 0 {
		t.Error("Topics() is empty")
	}
}
