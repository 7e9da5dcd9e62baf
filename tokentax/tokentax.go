// Package tokentax encodes tax records in the TokenTax CSV layout.
package tokentax

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/etnz/cointax"
	"github.com/etnz/cointax/date"
)

// DefaultDateFormat is the layout of the Date column.
const DefaultDateFormat = "2006-01-02T15:04:05.000Z"

// Header is the column list of the layout.
var Header = []string{"Type", "BuyAmount", "BuyCurrency", "SellAmount", "SellCurrency", "FeeAmount", "FeeCurrency", "Exchange", "Group", "Comment", "Date"}

type row struct {
	Type         string `csv:"Type"`
	BuyAmount    string `csv:"BuyAmount"`
	BuyCurrency  string `csv:"BuyCurrency"`
	SellAmount   string `csv:"SellAmount"`
	SellCurrency string `csv:"SellCurrency"`
	FeeAmount    string `csv:"FeeAmount"`
	FeeCurrency  string `csv:"FeeCurrency"`
	Exchange     string `csv:"Exchange"`
	Group        string `csv:"Group"`
	Comment      string `csv:"Comment"`
	Date         string `csv:"Date"`
}

// amount renders q, or nothing when the side is absent.
func amount(q cointax.Quantity, currency string) string {
	if currency == "" {
		return ""
	}
	return q.String()
}

// Write encodes records, in order, with dateFormat (DefaultDateFormat when
// empty) for the Date column.
func Write(w io.Writer, records []cointax.TaxRecord, dateFormat string) error {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	rows := make([]row, 0, len(records))
	for _, r := range records {
		rows = append(rows, row{
			Type:         r.Type.String(),
			BuyAmount:    amount(r.BuyAmount, r.BuyCurrency),
			BuyCurrency:  r.BuyCurrency,
			SellAmount:   amount(r.SellAmount, r.SellCurrency),
			SellCurrency: r.SellCurrency,
			FeeAmount:    amount(r.FeeAmount, r.FeeCurrency),
			FeeCurrency:  r.FeeCurrency,
			Exchange:     r.Exchange,
			Group:        r.Group,
			Comment:      r.Comment,
			Date:         date.FormatMillis(r.Time, dateFormat),
		})
	}
	if len(rows) == 0 {
		// gocsv needs at least one row to write the header.
		_, err := io.WriteString(w, strings.Join(Header, ",")+"\n")
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("cannot write tax records: %w", err)
	}
	return nil
}

// Read decodes records written by Write with the same dateFormat.
func Read(r io.Reader, dateFormat string) ([]cointax.TaxRecord, error) {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	var rows []row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("cannot read tax records: %w", err)
	}
	records := make([]cointax.TaxRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record(dateFormat)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r row) record(dateFormat string) (cointax.TaxRecord, error) {
	typ, err := cointax.ParseTxType(r.Type)
	if err != nil {
		return cointax.TaxRecord{}, err
	}
	t, err := time.Parse(dateFormat, r.Date)
	if err != nil {
		return cointax.TaxRecord{}, fmt.Errorf("invalid date: %w", err)
	}
	rec := cointax.TaxRecord{
		Type:         typ,
		BuyCurrency:  r.BuyCurrency,
		SellCurrency: r.SellCurrency,
		FeeCurrency:  r.FeeCurrency,
		Exchange:     r.Exchange,
		Group:        r.Group,
		Comment:      r.Comment,
		Time:         date.Millis(t),
	}
	for _, f := range []struct {
		dst  *cointax.Quantity
		name string
		s    string
	}{
		{&rec.BuyAmount, "BuyAmount", r.BuyAmount},
		{&rec.SellAmount, "SellAmount", r.SellAmount},
		{&rec.FeeAmount, "FeeAmount", r.FeeAmount},
	} {
		if f.s == "" {
			continue
		}
		if *f.dst, err = cointax.ParseQuantity(f.s); err != nil {
			return cointax.TaxRecord{}, fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}
	return rec, nil
}
