package binance

import "github.com/etnz/cointax"

// statementRow is one line of an account statement. Every line is one leg,
// signed as exported.
type statementRow struct {
	UserID    string `csv:"User_ID"`
	Time      string `csv:"UTC_Time"`
	Account   string `csv:"Account"`
	Operation string `csv:"Operation"`
	Coin      string `csv:"Coin"`
	Change    string `csv:"Change"`
	Remark    string `csv:"Remark"`
}

func parseStatement(p parser, row statementRow) (cointax.LedgerEntry, error) {
	var e cointax.LedgerEntry
	var err error
	if e.Time, err = p.time("UTC_Time", row.Time); err != nil {
		return e, err
	}
	if e.Category, err = p.required("Account", row.Account); err != nil {
		return e, err
	}
	if e.Operation, err = p.required("Operation", row.Operation); err != nil {
		return e, err
	}
	if e.Asset, err = p.required("Coin", row.Coin); err != nil {
		return e, err
	}
	if e.Change, err = p.quantity("Change", row.Change); err != nil {
		return e, err
	}
	e.UserID = row.UserID
	e.Remark = row.Remark
	e.Source = p.source(e.Category, e.Operation)
	return e, nil
}
