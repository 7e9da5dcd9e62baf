package cointax

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// AssetLedger holds the entries affecting one asset during a pipeline run.
//
// Quantity is the running sum of every Change added; it is never corrected,
// only checked. Balance also counts the quote and fee legs in the asset,
// which live in the entries of other ledgers or in Fee of this ledger's.
type AssetLedger struct {
	Asset            string
	Quantity         Quantity
	Balance          Quantity
	TransactionCount int
	Entries          []LedgerEntry // raw entries in input order
	Consolidated     []LedgerEntry // output of the window consolidation
}

// NewAssetLedger creates an empty ledger for asset.
func NewAssetLedger(asset string) *AssetLedger {
	return &AssetLedger{Asset: asset}
}

// Add appends an entry and updates the running counters.
func (l *AssetLedger) Add(e LedgerEntry) {
	if e.Asset != l.Asset {
		panic(fmt.Sprintf("entry for %q added to %q ledger", e.Asset, l.Asset))
	}
	l.Entries = append(l.Entries, e)
	l.TransactionCount++
	l.Quantity = l.Quantity.Add(e.Change)
	l.Balance = l.Balance.Add(e.Change)
}

// addLeg records a quote or fee leg moving the asset.
func (l *AssetLedger) addLeg(leg Leg) {
	if leg.Asset != l.Asset {
		panic(fmt.Sprintf("%q leg added to %q ledger", leg.Asset, l.Asset))
	}
	l.Balance = l.Balance.Add(leg.Amount)
}

// assertQuantity panics when the running total disagrees with the entries.
func (l *AssetLedger) assertQuantity() {
	if sum := sumChange(l.Entries); !sum.Equal(l.Quantity) {
		panic(fmt.Sprintf("%s running quantity %s differs from entries sum %s", l.Asset, l.Quantity, sum))
	}
	if l.TransactionCount != len(l.Entries) {
		panic(fmt.Sprintf("%s transaction count %d differs from %d entries", l.Asset, l.TransactionCount, len(l.Entries)))
	}
}

func sumChange(entries []LedgerEntry) Quantity {
	var s Quantity
	for _, e := range entries {
		s = s.Add(e.Change)
	}
	return s
}

// Partition groups entries per asset, preserving their relative order. The
// quote and fee legs of an entry count in the balance of their own asset,
// whose ledger is created even when it holds no entry.
func Partition(entries []LedgerEntry) map[string]*AssetLedger {
	ledgers := make(map[string]*AssetLedger)
	ledger := func(asset string) *AssetLedger {
		l, ok := ledgers[asset]
		if !ok {
			l = NewAssetLedger(asset)
			ledgers[asset] = l
		}
		return l
	}
	for _, e := range entries {
		ledger(e.Asset).Add(e)
		for _, leg := range []Leg{e.Quote, e.Fee} {
			if !leg.IsZero() {
				ledger(leg.Asset).addLeg(leg)
			}
		}
	}
	for _, l := range ledgers {
		l.assertQuantity()
	}
	return ledgers
}

// SortedAssets iterates over ledgers by asset name.
func SortedAssets(ledgers map[string]*AssetLedger) iter.Seq2[string, *AssetLedger] {
	return func(yield func(string, *AssetLedger) bool) {
		for _, asset := range slices.Sorted(maps.Keys(ledgers)) {
			if !yield(asset, ledgers[asset]) {
				return
			}
		}
	}
}
