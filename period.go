package cointax

import "github.com/etnz/cointax/date"

// PeriodConsolidator sums the Income records of one asset per calendar
// period, monthly by default.
type PeriodConsolidator struct {
	Period date.Period
}

// NewPeriodConsolidator returns a monthly consolidator.
func NewPeriodConsolidator() PeriodConsolidator {
	return PeriodConsolidator{Period: date.Monthly}
}

// incomeBucket accumulates the Income records of one period.
type incomeBucket struct {
	record TaxRecord // first record of the bucket, amount updated
	next   int64     // start of the next period, milliseconds
	open   bool
}

func (b *incomeBucket) flush(out []TaxRecord) []TaxRecord {
	if !b.open {
		return out
	}
	b.open = false
	return append(out, b.record)
}

// Consolidate walks the records of one asset, sorted with SortRecords, and
// merges consecutive Income records falling in the same period. The merged
// record keeps the time and the comment of the first record of the period.
// Other records are returned unchanged at their position.
//
// A negative sum, like a single negative Income, is kept as is.
func (p PeriodConsolidator) Consolidate(records []TaxRecord) []TaxRecord {
	out := make([]TaxRecord, 0, len(records))
	var b incomeBucket
	for _, r := range records {
		if r.Type != Income {
			out = b.flush(out)
			out = append(out, r)
			continue
		}
		if b.open && r.Time < b.next {
			b.record.BuyAmount = b.record.BuyAmount.Add(r.BuyAmount)
			b.record.USDValue = b.record.USDValue.Add(r.USDValue)
			continue
		}
		out = b.flush(out)
		b = incomeBucket{record: r, next: p.Period.Next(r.Time), open: true}
	}
	return b.flush(out)
}

// incomeSum is the sum of the Income buy amounts of records.
func incomeSum(records []TaxRecord) Quantity {
	var s Quantity
	for _, r := range records {
		if r.Type == Income {
			s = s.Add(r.BuyAmount)
		}
	}
	return s
}
