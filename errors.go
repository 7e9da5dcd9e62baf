package cointax

import "fmt"

// SchemaError reports a source row that cannot be parsed into a LedgerEntry.
type SchemaError struct {
	File   string
	Line   int
	Column string // offending column, empty when the whole row is at fault
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %q: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// SemanticError reports a parsed value that violates the documented meaning
// of its (category, operation) pair, like a withdrawal crediting the account.
type SemanticError struct {
	Category  string
	Operation string
	Change    Quantity
	Line      int
	Reason    string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d: %s/%s change %s: %s", e.Line, e.Category, e.Operation, e.Change, e.Reason)
}

func newSemanticError(entry LedgerEntry, format string, args ...any) *SemanticError {
	return &SemanticError{
		Category:  entry.Category,
		Operation: entry.Operation,
		Change:    entry.Change,
		Line:      entry.Source.Line,
		Reason:    fmt.Sprintf(format, args...),
	}
}

// UnknownOperationError reports a (category, operation) pair missing from the
// classification table.
type UnknownOperationError struct {
	Category  string
	Operation string
	Line      int
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("line %d: unknown operation %q in category %q", e.Line, e.Operation, e.Category)
}

// ConservationError reports a per asset quantity that changed across a
// consolidation stage. It always denotes a bug in the stage.
type ConservationError struct {
	Asset string
	Stage string
	Want  Quantity
	Got   Quantity
}

func (e *ConservationError) Error() string {
	return fmt.Sprintf("%s: %s quantity not conserved: want %s, got %s", e.Stage, e.Asset, e.Want, e.Got)
}
