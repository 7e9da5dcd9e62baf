package binance

import (
	"strings"

	"github.com/etnz/cointax"
)

// distributionRow is one line of the Binance.US history. Realized amounts are
// magnitudes, the direction of each leg is implied by the category and the
// operation.
type distributionRow struct {
	UserID         string `csv:"User_Id"`
	Time           string `csv:"Time"`
	Category       string `csv:"Category"`
	Operation      string `csv:"Operation"`
	OrderID        string `csv:"Order_Id"`
	TransactionID  string `csv:"Transaction_Id"`
	PrimaryAsset   string `csv:"Primary_Asset"`
	PrimaryAmount  string `csv:"Realized_Amount_For_Primary_Asset"`
	PrimaryUSD     string `csv:"Realized_Amount_For_Primary_Asset_In_USD_Value"`
	BaseAsset      string `csv:"Base_Asset"`
	BaseAmount     string `csv:"Realized_Amount_For_Base_Asset"`
	BaseUSD        string `csv:"Realized_Amount_For_Base_Asset_In_USD_Value"`
	QuoteAsset     string `csv:"Quote_Asset"`
	QuoteAmount    string `csv:"Realized_Amount_For_Quote_Asset"`
	QuoteUSD       string `csv:"Realized_Amount_For_Quote_Asset_In_USD_Value"`
	FeeAsset       string `csv:"Fee_Asset"`
	FeeAmount      string `csv:"Realized_Amount_For_Fee_Asset"`
	FeeUSD         string `csv:"Realized_Amount_For_Fee_Asset_In_USD_Value"`
	PaymentMethod  string `csv:"Payment_Method"`
	WithdrawMethod string `csv:"Withdrawal_Method"`
	Note           string `csv:"Additional_Note"`
}

// debits lists the categories whose primary asset leaves the account.
var debits = map[string]bool{
	"Withdrawal": true,
}

func parseDistribution(p parser, row distributionRow) (cointax.LedgerEntry, error) {
	var e cointax.LedgerEntry
	var err error
	if e.Time, err = p.time("Time", row.Time); err != nil {
		return e, err
	}
	if e.Category, err = p.required("Category", row.Category); err != nil {
		return e, err
	}
	if e.Operation, err = p.required("Operation", row.Operation); err != nil {
		return e, err
	}
	e.UserID = row.UserID
	e.OrderID = row.OrderID
	e.TransactionID = row.TransactionID
	e.Remark = strings.TrimSpace(row.Note)
	e.Source = p.source(e.Category, e.Operation)

	if strings.TrimSpace(row.BaseAsset) != "" {
		err = parseTrade(p, row, &e)
	} else {
		err = parsePrimary(p, row, &e)
	}
	if err != nil {
		return e, err
	}

	if strings.TrimSpace(row.FeeAsset) != "" {
		fee, err := p.optional("Realized_Amount_For_Fee_Asset", row.FeeAmount)
		if err != nil {
			return e, err
		}
		e.Fee = cointax.Leg{Asset: strings.TrimSpace(row.FeeAsset), Amount: fee.Neg()}
	}
	return e, nil
}

// parsePrimary reads a single asset movement. Credits keep the exported sign
// so that negative adjustments survive.
func parsePrimary(p parser, row distributionRow, e *cointax.LedgerEntry) error {
	var err error
	if e.Asset, err = p.required("Primary_Asset", row.PrimaryAsset); err != nil {
		return err
	}
	if e.Change, err = p.quantity("Realized_Amount_For_Primary_Asset", row.PrimaryAmount); err != nil {
		return err
	}
	if e.USDValue, err = p.optional("Realized_Amount_For_Primary_Asset_In_USD_Value", row.PrimaryUSD); err != nil {
		return err
	}
	if debits[e.Category] {
		e.Change = e.Change.Neg()
		e.USDValue = e.USDValue.Neg()
	}
	return nil
}

// parseTrade reads the base and quote legs of a trade. A buy credits the base
// asset and debits the quote asset, a sell does the opposite.
func parseTrade(p parser, row distributionRow, e *cointax.LedgerEntry) error {
	base, err := p.quantity("Realized_Amount_For_Base_Asset", row.BaseAmount)
	if err != nil {
		return err
	}
	baseUSD, err := p.optional("Realized_Amount_For_Base_Asset_In_USD_Value", row.BaseUSD)
	if err != nil {
		return err
	}
	quoteAsset, err := p.required("Quote_Asset", row.QuoteAsset)
	if err != nil {
		return err
	}
	quote, err := p.quantity("Realized_Amount_For_Quote_Asset", row.QuoteAmount)
	if err != nil {
		return err
	}

	switch e.Operation {
	case "Buy":
		quote = quote.Neg()
	case "Sell":
		base, baseUSD = base.Neg(), baseUSD.Neg()
	default:
		return p.errorf("Operation", "trade operation %q is neither Buy nor Sell", e.Operation)
	}
	e.Asset = strings.TrimSpace(row.BaseAsset)
	e.Change = base
	e.USDValue = baseUSD
	e.Quote = cointax.Leg{Asset: quoteAsset, Amount: quote}
	return nil
}
