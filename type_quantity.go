package cointax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T int | int32 | int64 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an exact signed amount of an asset. There is no float
// constructor.
type Quantity struct {
	value decimal.Decimal
}

func Q[T int | int32 | int64 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses an exact decimal string such as "-6.890204".
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Quantity{value: d}, nil
}

// MustQ is like ParseQuantity but panics on error.
func MustQ(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err.Error())
	}
	return q
}

func (t Quantity) Equal(p Quantity) bool       { return t.value.Equal(p.value) }
func (t Quantity) Cmp(p Quantity) int          { return t.value.Cmp(p.value) }
func (t Quantity) LessThan(p Quantity) bool    { return t.value.LessThan(p.value) }
func (t Quantity) GreaterThan(p Quantity) bool { return t.value.GreaterThan(p.value) }
func (t Quantity) Add(p Quantity) Quantity     { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity     { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) Neg() Quantity               { return Quantity{value: t.value.Neg()} }
func (t Quantity) Abs() Quantity               { return Quantity{value: t.value.Abs()} }
func (t Quantity) Sign() int                   { return t.value.Sign() }
func (t Quantity) IsNegative() bool            { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool            { return t.value.IsPositive() }
func (t Quantity) IsZero() bool                { return t.value.IsZero() }
func (t Quantity) Decimal() decimal.Decimal    { return t.value }
func (t Quantity) String() string              { return t.value.String() }

// Sum adds up quantities.
func Sum(qs ...Quantity) Quantity {
	var s Quantity
	for _, q := range qs {
		s = s.Add(q)
	}
	return s
}

// MarshalJSON implements the json.Marshaler interface.
func (t Quantity) MarshalJSON() ([]byte, error) {
	return t.value.MarshalJSON()
}

func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}
