// Package binance reads Binance ledger exports into cointax ledger entries.
//
// Three export schemas are supported, told apart by their header line: the
// account statement, the Binance.US distribution and trade history, and the
// referral commission history. Column names are a contract: a file whose
// header matches none of them is rejected.
//
// Quoted fields spanning several lines are not supported, the line of a row
// is its index after the header.
package binance

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/etnz/cointax"
	"github.com/etnz/cointax/date"
)

// Schema identifies the layout of an export.
type Schema int

const (
	Statement Schema = iota + 1
	Distribution
	Commission
)

var headers = map[Schema][]string{
	Statement: {"User_ID", "UTC_Time", "Account", "Operation", "Coin", "Change", "Remark"},
	Distribution: {
		"User_Id", "Time", "Category", "Operation", "Order_Id", "Transaction_Id",
		"Primary_Asset", "Realized_Amount_For_Primary_Asset", "Realized_Amount_For_Primary_Asset_In_USD_Value",
		"Base_Asset", "Realized_Amount_For_Base_Asset", "Realized_Amount_For_Base_Asset_In_USD_Value",
		"Quote_Asset", "Realized_Amount_For_Quote_Asset", "Realized_Amount_For_Quote_Asset_In_USD_Value",
		"Fee_Asset", "Realized_Amount_For_Fee_Asset", "Realized_Amount_For_Fee_Asset_In_USD_Value",
		"Payment_Method", "Withdrawal_Method", "Additional_Note",
	},
	Commission: {
		"Order Type", "Friend's ID(Spot)", "Friend's sub ID (Spot)", "Commission Asset",
		"Commission Earned", "Commission Earned (USDT)", "Commission Time", "Registration Time", "Referral ID",
	},
}

func (s Schema) String() string {
	switch s {
	case Statement:
		return "statement"
	case Distribution:
		return "distribution"
	case Commission:
		return "commission"
	default:
		return fmt.Sprintf("Schema(%d)", int(s))
	}
}

// Tag returns the provenance tag of entries read with s.
func (s Schema) Tag() string {
	switch s {
	case Statement:
		return cointax.TagStatement
	case Distribution:
		return cointax.TagDistribution
	case Commission:
		return cointax.TagCommission
	default:
		panic(fmt.Sprintf("unknown schema %d", int(s)))
	}
}

// Header returns the column names of s.
func (s Schema) Header() []string { return slices.Clone(headers[s]) }

// DetectSchema returns the schema whose columns are exactly header.
func DetectSchema(header []string) (Schema, error) {
	trimmed := make([]string, len(header))
	for i, h := range header {
		trimmed[i] = strings.TrimSpace(h)
	}
	for _, s := range []Schema{Statement, Distribution, Commission} {
		if slices.Equal(trimmed, headers[s]) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown header %q", strings.Join(trimmed, ","))
}

// Options tunes the readers.
type Options struct {
	// DefaultOffset is appended to timestamps without a UTC offset. Defaults
	// to "+00:00".
	DefaultOffset string
}

func (o Options) offset() string {
	if o.DefaultOffset == "" {
		return "+00:00"
	}
	return o.DefaultOffset
}

var bom = []byte("\ufeff")

// Read parses an export. file is the index of the export in the run and name
// its display name, both used in provenance and errors.
func Read(r io.Reader, file int, name string, opts Options) ([]cointax.LedgerEntry, error) {
	if !date.ValidOffset(opts.offset()) {
		return nil, fmt.Errorf("invalid default offset %q", opts.DefaultOffset)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, bom)

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, &cointax.SchemaError{File: name, Line: 1, Err: fmt.Errorf("cannot read header: %w", err)}
	}
	schema, err := DetectSchema(header)
	if err != nil {
		return nil, &cointax.SchemaError{File: name, Line: 1, Err: err}
	}

	p := parser{file: file, name: name, tag: schema.Tag(), offset: opts.offset()}
	switch schema {
	case Statement:
		var rows []statementRow
		if err := gocsv.Unmarshal(bytes.NewReader(data), &rows); err != nil {
			return nil, decodeError(name, err)
		}
		return parseRows(p, rows, parseStatement)
	case Distribution:
		var rows []distributionRow
		if err := gocsv.Unmarshal(bytes.NewReader(data), &rows); err != nil {
			return nil, decodeError(name, err)
		}
		return parseRows(p, rows, parseDistribution)
	default:
		var rows []commissionRow
		if err := gocsv.Unmarshal(bytes.NewReader(data), &rows); err != nil {
			return nil, decodeError(name, err)
		}
		return parseRows(p, rows, parseCommission)
	}
}

// decodeError locates a row decoding error at the line the csv reader
// reports, or at the header when there is none.
func decodeError(name string, err error) error {
	line := 1
	var parse *csv.ParseError
	if errors.As(err, &parse) {
		line = parse.StartLine
		if line == 0 {
			line = parse.Line
		}
	}
	return &cointax.SchemaError{File: name, Line: line, Err: err}
}

// ReadFile parses the export at path.
func ReadFile(path string, file int, opts Options) ([]cointax.LedgerEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open export: %w", err)
	}
	defer f.Close()
	return Read(f, file, filepath.Base(path), opts)
}

// ReadFiles parses every export, numbering them in order. Errors of all the
// files are reported together.
func ReadFiles(paths []string, opts Options) ([]cointax.LedgerEntry, error) {
	var entries []cointax.LedgerEntry
	var errs []error
	for i, path := range paths {
		e, err := ReadFile(path, i, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, e...)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return entries, nil
}

// parser carries the context of the file being parsed.
type parser struct {
	file   int
	name   string
	tag    string
	offset string
	line   int
}

func parseRows[R any](p parser, rows []R, parse func(parser, R) (cointax.LedgerEntry, error)) ([]cointax.LedgerEntry, error) {
	entries := make([]cointax.LedgerEntry, 0, len(rows))
	for i, row := range rows {
		p.line = i + 2
		e, err := parse(p, row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (p parser) errorf(column string, format string, args ...any) error {
	return &cointax.SchemaError{File: p.name, Line: p.line, Column: column, Err: fmt.Errorf(format, args...)}
}

func (p parser) required(column, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", p.errorf(column, "missing value")
	}
	return value, nil
}

func (p parser) time(column, value string) (int64, error) {
	value, err := p.required(column, value)
	if err != nil {
		return 0, err
	}
	ms, err := date.ParseDateTime(value, p.offset)
	if err != nil {
		return 0, &cointax.SchemaError{File: p.name, Line: p.line, Column: column, Err: err}
	}
	return ms, nil
}

func (p parser) quantity(column, value string) (cointax.Quantity, error) {
	value, err := p.required(column, value)
	if err != nil {
		return cointax.Quantity{}, err
	}
	q, err := cointax.ParseQuantity(value)
	if err != nil {
		return cointax.Quantity{}, &cointax.SchemaError{File: p.name, Line: p.line, Column: column, Err: err}
	}
	return q, nil
}

// optional parses an amount that may be left empty.
func (p parser) optional(column, value string) (cointax.Quantity, error) {
	if strings.TrimSpace(value) == "" {
		return cointax.Quantity{}, nil
	}
	return p.quantity(column, value)
}

func (p parser) source(category, operation string) cointax.Provenance {
	return cointax.Provenance{Tag: p.tag, File: p.file, Line: p.line, Category: category, Operation: operation}
}
