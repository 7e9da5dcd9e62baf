package renderer

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/etnz/cointax"
	"github.com/etnz/cointax/date"
)

func result(t *testing.T) *cointax.Result {
	t.Helper()
	e := func(ts, cat, op, asset, change, usd string, line int) cointax.LedgerEntry {
		return cointax.LedgerEntry{
			UserID: "1", Time: date.MustParseDateTime(ts), Category: cat, Operation: op,
			Asset: asset, Change: cointax.MustQ(change), USDValue: cointax.MustQ(usd),
			Source: cointax.Provenance{Tag: cointax.TagDistribution, Line: line, Category: cat, Operation: op},
		}
	}
	res, err := cointax.Run([]cointax.LedgerEntry{
		e("2021-01-05 10:00:00", "Distribution", "Referral Commission", "USD", "1.5", "1.5", 2),
		e("2021-01-05 11:00:00", "Distribution", "Referral Commission", "USD", "2.5", "2.5", 3),
		e("2021-01-20 11:00:00", "Distribution", "Staking Rewards", "ADA", "10", "3.333", 4),
		e("2021-02-01 11:00:00", "Distribution", "Referral Commission", "USD", "-6.890204", "-6.890204", 5),
		e("2021-02-02 11:00:00", "Deposit", "Crypto Deposit", "ADA", "100", "30", 6),
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	return res
}

// outline parses md and returns its headings and the number of tables.
func outline(t *testing.T, md string) (headings []string, tables int) {
	t.Helper()
	source := []byte(md)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			var b strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			headings = append(headings, strings.TrimSpace(b.String()))
		case *extast.Table:
			tables++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return headings, tables
}

func TestRenderSummary(t *testing.T) {
	md := RenderSummary(NewSummary(result(t)))

	headings, tables := outline(t, md)
	if strings.Join(headings, "|") != "Tax Ledger|Assets|Income" {
		t.Errorf("RenderSummary() headings = %q", headings)
	}
	if tables != 2 {
		t.Errorf("RenderSummary() has %d tables, want 2:\n%s", tables, md)
	}
	for _, want := range []string{
		"| ADA | 110 | 2 | 2 |",
		"| USD | -2.890204 | 3 | 2 |",
		"| 2021-01 | ADA | 10 | 1 | $3.33 |",
		"| 2021-01 | USD | 4 | 1 | $4.00 |",
		"| 2021-02 | USD | -6.890204 | 1 | -$6.89 |",
		"Total: $0.44",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderSummary() missing %q in:\n%s", want, md)
		}
	}
}

func TestRenderSummary_NoIncome(t *testing.T) {
	md := RenderSummary(NewSummary(&cointax.Result{RunID: "x"}))
	if !strings.Contains(md, "No Income.") {
		t.Errorf("RenderSummary() = %s, want no income notice", md)
	}
}

func TestRenderCheck(t *testing.T) {
	md := RenderCheck(NewSummary(result(t)))

	headings, tables := outline(t, md)
	if strings.Join(headings, "|") != "Tax Ledger|Stages|Records|Assets" {
		t.Errorf("RenderCheck() headings = %q", headings)
	}
	if tables != 3 {
		t.Errorf("RenderCheck() has %d tables, want 3:\n%s", tables, md)
	}
	for _, want := range []string{"| Read | 5 |", "| Window consolidated | 4 |", "| Period consolidated | 4 |", "| Income | 3 |", "| Deposit | 1 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderCheck() missing %q in:\n%s", want, md)
		}
	}
}

func TestUSD(t *testing.T) {
	tests := map[string]string{
		"0":          "$0.00",
		"12345.678":  "$12,345.68",
		"-6.890204":  "-$6.89",
		"0.004":      "$0.00",
		"1000000.01": "$1,000,000.01",
	}
	for in, want := range tests {
		if got := USD(cointax.MustQ(in)); got != want {
			t.Errorf("USD(%s) = %q, want %q", in, got, want)
		}
	}
}
