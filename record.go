package cointax

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// TxType is the normalized transaction type of a TaxRecord.
type TxType int

const (
	Income TxType = iota
	Trade
	Deposit
	Withdrawal
	Spend
	Gift
	Lost
	Stolen
	Mining
)

var txTypeNames = [...]string{"Income", "Trade", "Deposit", "Withdrawal", "Spend", "Gift", "Lost", "Stolen", "Mining"}

func (t TxType) String() string {
	if t < 0 || int(t) >= len(txTypeNames) {
		return fmt.Sprintf("TxType(%d)", int(t))
	}
	return txTypeNames[t]
}

// ParseTxType parses the name of a transaction type.
func ParseTxType(s string) (TxType, error) {
	for i, name := range txTypeNames {
		if name == s {
			return TxType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// AllTxTypes returns every transaction type, in sort order.
func AllTxTypes() []TxType {
	return []TxType{Income, Trade, Deposit, Withdrawal, Spend, Gift, Lost, Stolen, Mining}
}

func (t TxType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TxType) UnmarshalText(b []byte) error {
	v, err := ParseTxType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TaxRecord is one line of the normalized tax ledger.
//
// Amounts are magnitudes, except Income that may be negative (see
// PeriodConsolidator). Which sides are set depends on Type:
//   - Trade: buy and sell, fee optional.
//   - Income, Deposit, Gift, Mining: buy only.
//   - Withdrawal: sell, fee optional.
//   - Spend, Lost, Stolen: sell only.
type TaxRecord struct {
	Type         TxType   `json:"type"`
	BuyAmount    Quantity `json:"buy_amount"`
	BuyCurrency  string   `json:"buy_currency,omitempty"`
	SellAmount   Quantity `json:"sell_amount"`
	SellCurrency string   `json:"sell_currency,omitempty"`
	FeeAmount    Quantity `json:"fee_amount"`
	FeeCurrency  string   `json:"fee_currency,omitempty"`
	Exchange     string   `json:"exchange"`
	Group        string   `json:"group,omitempty"`
	Comment      string   `json:"comment"`
	Time         int64    `json:"time"`

	// USDValue is the USD value of the primary amount when the source
	// provides it. It is not part of the output schema.
	USDValue Quantity `json:"usd_value"`
}

func (r TaxRecord) String() string {
	b, _ := json.Marshal(r)
	return string(b)
}

type sides struct{ buy, sell, fee bool }

// allowed returns the mandatory and the permitted sides of a type.
func (t TxType) allowed() (required, permitted sides) {
	switch t {
	case Trade:
		return sides{buy: true, sell: true}, sides{buy: true, sell: true, fee: true}
	case Income, Deposit, Gift, Mining:
		return sides{buy: true}, sides{buy: true}
	case Withdrawal:
		return sides{sell: true}, sides{sell: true, fee: true}
	case Spend, Lost, Stolen:
		return sides{sell: true}, sides{sell: true}
	default:
		panic(fmt.Sprintf("unknown transaction type %d", int(t)))
	}
}

// checkSides panics if r does not populate exactly the sides of its type.
func (r TaxRecord) checkSides() {
	required, permitted := r.Type.allowed()
	has := sides{buy: r.BuyCurrency != "", sell: r.SellCurrency != "", fee: r.FeeCurrency != ""}
	bad := (required.buy && !has.buy) || (required.sell && !has.sell) ||
		(!permitted.buy && has.buy) || (!permitted.sell && has.sell) || (!permitted.fee && has.fee)
	if bad {
		panic(fmt.Sprintf("%s record with invalid sides: %v", r.Type, r))
	}
	if !has.buy && !r.BuyAmount.IsZero() || !has.sell && !r.SellAmount.IsZero() || !has.fee && !r.FeeAmount.IsZero() {
		panic(fmt.Sprintf("%s record with an amount and no currency: %v", r.Type, r))
	}
}

// CompareRecords orders records by type, Income first, then by time.
func CompareRecords(a, b TaxRecord) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	return cmp.Compare(a.Time, b.Time)
}

// SortRecords sorts records with CompareRecords. The sort is stable.
func SortRecords(records []TaxRecord) {
	slices.SortStableFunc(records, CompareRecords)
}
