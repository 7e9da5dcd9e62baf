package cointax

import (
	"cmp"
	"maps"
	"slices"
)

// handler is the closed set of classification rules.
type handler int

const (
	handleIncome handler = iota + 1
	handleMining
	handleGift
	handleDeposit
	handleWithdrawal
	handleTrade
	handleSpend
	handleConvert
)

// classification is the fixed table of known (category, operation) pairs.
var classification = map[Key]handler{
	// account statement
	{"Spot", "Commission History"}:             handleIncome,
	{"Spot", "Referral Kickback"}:              handleIncome,
	{"Spot", "Commission Fee Shared With You"}: handleIncome,
	{"Spot", "Distribution"}:                   handleIncome,
	{"Spot", "Savings Interest"}:               handleIncome,
	{"Spot", "POS savings interest"}:           handleIncome,
	{"Spot", "Staking Rewards"}:                handleIncome,
	{"Spot", "Launchpool Interest"}:            handleIncome,
	{"Spot", "Simple Earn Flexible Interest"}:  handleIncome,
	{"Spot", "ETH 2.0 Staking Rewards"}:        handleIncome,
	{"Spot", "Airdrop Assets"}:                 handleIncome,
	{"Spot", "Super BNB Mining"}:               handleMining,
	{"Spot", "Cash Voucher distribution"}:      handleGift,
	{"Spot", "Deposit"}:                        handleDeposit,
	{"Spot", "Withdraw"}:                       handleWithdrawal,
	{"Spot", "Buy"}:                            handleTrade,
	{"Spot", "Sell"}:                           handleTrade,
	{"Spot", "Fee"}:                            handleSpend,
	{"Spot", "Small assets exchange BNB"}:      handleConvert,

	// distribution history
	{"Distribution", "Referral Commission"}: handleIncome,
	{"Distribution", "Staking Rewards"}:     handleIncome,
	{"Distribution", "Others"}:              handleIncome,
	{"Distribution", "Pool Distribution"}:   handleIncome,
	{"Deposit", "Crypto Deposit"}:           handleDeposit,
	{"Deposit", "USD Deposit"}:              handleDeposit,
	{"Withdrawal", "Crypto Withdrawal"}:     handleWithdrawal,
	{"Withdrawal", "USD Withdrawal"}:        handleWithdrawal,
	{"Quick Buy", "Buy"}:                    handleTrade,
	{"Quick Sell", "Sell"}:                  handleTrade,
	{"Spot Trading", "Buy"}:                 handleTrade,
	{"Spot Trading", "Sell"}:                handleTrade,

	// commission history
	{"Commission", "Referral Commission"}: handleIncome,
}

// IsConsolidatable reports whether repeated entries of k are merged by the
// window consolidation: every Income pair and the Mining pair.
func IsConsolidatable(k Key) bool {
	h := classification[k]
	return h == handleIncome || h == handleMining
}

// IsKnown reports whether k is in the classification table.
func IsKnown(k Key) bool {
	_, ok := classification[k]
	return ok
}

// TypeOf returns the transaction type k classifies to.
func TypeOf(k Key) (TxType, bool) {
	switch classification[k] {
	case handleIncome:
		return Income, true
	case handleMining:
		return Mining, true
	case handleGift:
		return Gift, true
	case handleDeposit:
		return Deposit, true
	case handleWithdrawal:
		return Withdrawal, true
	case handleTrade, handleConvert:
		return Trade, true
	case handleSpend:
		return Spend, true
	default:
		return 0, false
	}
}

// KnownKeys returns every classified pair, sorted.
func KnownKeys() []Key {
	return slices.SortedFunc(maps.Keys(classification), func(a, b Key) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Operation, b.Operation)
	})
}

// DefaultExchanges maps provenance tags to the exchange name written in
// tax records.
func DefaultExchanges() map[string]string {
	return map[string]string{
		TagStatement:    "binance.com",
		TagDistribution: "binance.us",
		TagCommission:   "binance.com",
	}
}

// Classifier turns ledger entries into tax records.
type Classifier struct {
	// Exchanges maps a provenance tag to the exchange name. Tags missing from
	// the map fall back to DefaultExchanges.
	Exchanges map[string]string
}

func (c Classifier) exchange(tag string) string {
	if name, ok := c.Exchanges[tag]; ok {
		return name
	}
	return DefaultExchanges()[tag]
}

// Classify maps e to its tax record.
//
// It fails with an *UnknownOperationError when the pair of e is not in the
// table, and with a *SemanticError when the sign of e contradicts its pair.
// The record never inherits a sign flip: a withdrawal must be a debit.
func (c Classifier) Classify(e LedgerEntry) (TaxRecord, error) {
	h, ok := classification[e.Key()]
	if !ok {
		return TaxRecord{}, &UnknownOperationError{Category: e.Category, Operation: e.Operation, Line: e.Source.Line}
	}
	r := TaxRecord{
		Exchange: c.exchange(e.Source.Tag),
		Comment:  e.Source.String(),
		Time:     e.Time,
		USDValue: e.USDValue,
	}

	switch h {
	case handleIncome, handleMining:
		// Income may be negative after a referral adjustment; keep it.
		r.Type = Income
		if h == handleMining {
			r.Type = Mining
		}
		r.BuyAmount, r.BuyCurrency = e.Change, e.Asset

	case handleGift, handleDeposit:
		if !e.Change.IsPositive() {
			return TaxRecord{}, newSemanticError(e, "must be a credit")
		}
		r.Type = Deposit
		if h == handleGift {
			r.Type = Gift
		}
		r.BuyAmount, r.BuyCurrency = e.Change, e.Asset

	case handleWithdrawal:
		if !e.Change.IsNegative() {
			return TaxRecord{}, newSemanticError(e, "withdrawal must be a debit")
		}
		r.Type = Withdrawal
		r.SellAmount, r.SellCurrency = e.Change.Neg(), e.Asset
		setFee(&r, e.Fee)

	case handleTrade:
		if e.Quote.IsZero() {
			return TaxRecord{}, newSemanticError(e, "trade without a quote leg")
		}
		r.Type = Trade
		switch e.Operation {
		case "Buy":
			if !e.Change.IsPositive() || !e.Quote.Amount.IsNegative() {
				return TaxRecord{}, newSemanticError(e, "buy must credit the base asset and debit the quote asset %s %s", e.Quote.Amount, e.Quote.Asset)
			}
			r.BuyAmount, r.BuyCurrency = e.Change, e.Asset
			r.SellAmount, r.SellCurrency = e.Quote.Amount.Neg(), e.Quote.Asset
		case "Sell":
			if !e.Change.IsNegative() || !e.Quote.Amount.IsPositive() {
				return TaxRecord{}, newSemanticError(e, "sell must debit the base asset and credit the quote asset %s %s", e.Quote.Amount, e.Quote.Asset)
			}
			r.BuyAmount, r.BuyCurrency = e.Quote.Amount, e.Quote.Asset
			r.SellAmount, r.SellCurrency = e.Change.Neg(), e.Asset
		default:
			return TaxRecord{}, newSemanticError(e, "trade operation must be Buy or Sell")
		}
		setFee(&r, e.Fee)

	case handleSpend:
		if !e.Change.IsNegative() {
			return TaxRecord{}, newSemanticError(e, "spend must be a debit")
		}
		r.Type = Spend
		r.SellAmount, r.SellCurrency = e.Change.Neg(), e.Asset

	case handleConvert:
		// A debit left without its BNB credit by AlignLegs is a spend.
		if e.Quote.IsZero() {
			if !e.Change.IsNegative() {
				return TaxRecord{}, newSemanticError(e, "dust conversion credit without its converted asset")
			}
			r.Type = Spend
			r.SellAmount, r.SellCurrency = e.Change.Neg(), e.Asset
			break
		}
		if !e.Change.IsPositive() || !e.Quote.Amount.IsNegative() {
			return TaxRecord{}, newSemanticError(e, "dust conversion must credit %s and debit the converted asset %s %s", e.Asset, e.Quote.Amount, e.Quote.Asset)
		}
		r.Type = Trade
		r.BuyAmount, r.BuyCurrency = e.Change, e.Asset
		r.SellAmount, r.SellCurrency = e.Quote.Amount.Neg(), e.Quote.Asset

	default:
		panic("unhandled classification " + e.Key().String())
	}

	r.checkSides()
	return r, nil
}

func setFee(r *TaxRecord, fee Leg) {
	if fee.IsZero() || fee.Amount.IsZero() {
		return
	}
	r.FeeAmount, r.FeeCurrency = fee.Amount.Abs(), fee.Asset
}
