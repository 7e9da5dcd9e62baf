package cointax

import (
	"cmp"
	"slices"
)

// feeLike lists the pairs whose lines are legs of a multi-leg transaction
// with a negative balancing leg. Instances of these legs are ordered by
// magnitude so that the k-th instance of every leg type of a given timestamp
// line up.
var feeLike = map[Key]struct{}{
	{"Spot", "Buy"}:                       {},
	{"Spot", "Sell"}:                      {},
	{"Spot", "Fee"}:                       {},
	{"Spot", "Transaction Related"}:       {},
	{"Spot", "Small assets exchange BNB"}: {},
}

// IsFeeLike reports whether entries of k are compared by absolute change.
func IsFeeLike(k Key) bool {
	_, ok := feeLike[k]
	return ok
}

// Compare is the canonical total order over ledger entries.
//
// Entries compare by user, time, category, operation, then change, then
// remark. Change compares by absolute value for fee-like pairs and by signed
// value otherwise. Entries still equal are ordered by asset, signed change and
// identifiers so that only identical lines compare equal.
func Compare(a, b LedgerEntry) int {
	if c := cmp.Compare(a.UserID, b.UserID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Operation, b.Operation); c != 0 {
		return c
	}
	// a and b share the same key from here on.
	if IsFeeLike(a.Key()) {
		if c := a.Change.Abs().Cmp(b.Change.Abs()); c != 0 {
			return c
		}
	} else if c := a.Change.Cmp(b.Change); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Remark, b.Remark); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Asset, b.Asset); c != 0 {
		return c
	}
	if c := a.Change.Cmp(b.Change); c != 0 {
		return c
	}
	if c := cmp.Compare(a.OrderID, b.OrderID); c != 0 {
		return c
	}
	return cmp.Compare(a.TransactionID, b.TransactionID)
}

// Less reports whether a sorts before b.
func Less(a, b LedgerEntry) bool { return Compare(a, b) < 0 }

// SortEntries sorts entries in canonical order. The sort is stable.
func SortEntries(entries []LedgerEntry) {
	slices.SortStableFunc(entries, Compare)
}
