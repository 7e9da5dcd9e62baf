// Package cointax converts cryptocurrency exchange ledger exports into a
// normalized tax-transaction ledger.
//
// The engine works on closed, fully loaded exports and runs in stages:
//   - Ordering: a total order over LedgerEntry, with a magnitude tie-break for
//     the legs of multi-leg transactions (see Compare).
//   - Leg alignment: legs of one trade sharing a timestamp are merged into a
//     single entry carrying its quote and fee legs (see AlignLegs).
//   - Partitioning: entries are grouped per asset into AssetLedger values that
//     track the running quantity.
//   - Window consolidation: runs of repeated low-value income are collapsed
//     into one entry per day (see WindowConsolidator).
//   - Classification: each entry maps to exactly one TaxRecord through a fixed
//     table keyed by (category, operation) (see Classifier).
//   - Period consolidation: Income records are summed per calendar month
//     (see PeriodConsolidator).
//
// Pipeline chains the stages and verifies quantity conservation between them.
// Reading the exchange files and writing the output are done by the binance
// and tokentax packages.
package cointax
