package cointax

import (
	"github.com/google/go-cmp/cmp"

	"github.com/etnz/cointax/date"
)

// quantityEqual compares quantities by value, "1.0" equals "1".
var quantityEqual = cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) })

// at is a helper for test to create a UTC timestamp from a date-time string.
func at(s string) int64 { return date.MustParseDateTime(s) }

// spot is a helper for test to create a statement entry.
func spot(ts, op, asset, change string) LedgerEntry {
	return entry(ts, "Spot", op, asset, change)
}

// entry is a helper for test to create an entry of user "1".
func entry(ts, category, op, asset, change string) LedgerEntry {
	return LedgerEntry{
		UserID:    "1",
		Time:      at(ts),
		Category:  category,
		Operation: op,
		Asset:     asset,
		Change:    MustQ(change),
		Source:    Provenance{Tag: TagStatement, Category: category, Operation: op},
	}
}

// withLine sets the source line of e.
func withLine(e LedgerEntry, line int) LedgerEntry {
	e.Source.Line = line
	return e
}

// income is a helper for test to create an Income record.
func income(ts, asset, amount string) TaxRecord {
	return TaxRecord{Type: Income, BuyAmount: MustQ(amount), BuyCurrency: asset, Time: at(ts), Comment: ts}
}
