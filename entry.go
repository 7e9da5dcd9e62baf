package cointax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/cointax/date"
)

// Provenance tags identify the schema revision of the source file. The
// comment format of a given tag never changes.
const (
	TagStatement    = "st1" // 7 column account statement
	TagDistribution = "du1" // distribution and trade history with realized amounts
	TagCommission   = "cm1" // referral commission history
)

// Key is the two-level label exchanges attach to a ledger line.
type Key struct {
	Category  string
	Operation string
}

func (k Key) String() string { return k.Category + "/" + k.Operation }

// Leg is a secondary asset movement attached to an entry, like the quote
// side of a trade or its fee. A Leg with no Asset is absent.
type Leg struct {
	Asset  string
	Amount Quantity
}

// IsZero reports whether the leg is absent.
func (l Leg) IsZero() bool { return l.Asset == "" }

// Provenance locates the raw line an entry comes from.
type Provenance struct {
	Tag       string // schema revision, one of the Tag constants
	File      int    // index of the source file in the run
	Line      int    // 1-based line in the source file, the header being line 1
	Category  string // original category
	Operation string // original operation
}

// String renders the machine parseable audit comment:
//
//	<tag>,<file>,<line>,<category>,<operation>
func (p Provenance) String() string {
	return strings.Join([]string{p.Tag, strconv.Itoa(p.File), strconv.Itoa(p.Line), p.Category, p.Operation}, ",")
}

// ParseProvenance parses the output of Provenance.String.
func ParseProvenance(s string) (Provenance, error) {
	parts := strings.SplitN(s, ",", 5)
	if len(parts) != 5 {
		return Provenance{}, fmt.Errorf("invalid provenance %q: want 5 fields, got %d", s, len(parts))
	}
	switch parts[0] {
	case TagStatement, TagDistribution, TagCommission:
	default:
		return Provenance{}, fmt.Errorf("invalid provenance %q: unknown tag %q", s, parts[0])
	}
	file, err := strconv.Atoi(parts[1])
	if err != nil {
		return Provenance{}, fmt.Errorf("invalid provenance %q: file index: %w", s, err)
	}
	line, err := strconv.Atoi(parts[2])
	if err != nil {
		return Provenance{}, fmt.Errorf("invalid provenance %q: line: %w", s, err)
	}
	return Provenance{Tag: parts[0], File: file, Line: line, Category: parts[3], Operation: parts[4]}, nil
}

// LedgerEntry is one normalized export line.
//
// Change is signed: positive is a credit of Asset, negative a debit. Quote and
// Fee are only set for trades, either read from a single row that carries all
// legs or merged by AlignLegs.
type LedgerEntry struct {
	UserID        string
	Time          int64 // milliseconds since epoch, UTC
	Category      string
	Operation     string
	Asset         string
	Change        Quantity
	Remark        string
	OrderID       string
	TransactionID string

	Quote    Leg
	Fee      Leg
	USDValue Quantity // value of Change in USD when the export provides it
	Source   Provenance
}

// Key returns the (category, operation) pair of the entry.
func (e LedgerEntry) Key() Key { return Key{Category: e.Category, Operation: e.Operation} }

func (e LedgerEntry) String() string {
	return fmt.Sprintf("%s %s %s %s %s", date.FormatMillis(e.Time, date.DateTimeFormat), e.Key(), e.Change, e.Asset, e.Source)
}
