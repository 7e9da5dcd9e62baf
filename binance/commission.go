package binance

import "github.com/etnz/cointax"

// Referral commissions all land in one pair.
const (
	commissionCategory  = "Commission"
	commissionOperation = "Referral Commission"
)

type commissionRow struct {
	OrderType        string `csv:"Order Type"`
	FriendID         string `csv:"Friend's ID(Spot)"`
	FriendSubID      string `csv:"Friend's sub ID (Spot)"`
	Asset            string `csv:"Commission Asset"`
	Earned           string `csv:"Commission Earned"`
	EarnedUSDT       string `csv:"Commission Earned (USDT)"`
	Time             string `csv:"Commission Time"`
	RegistrationTime string `csv:"Registration Time"`
	ReferralID       string `csv:"Referral ID"`
}

func parseCommission(p parser, row commissionRow) (cointax.LedgerEntry, error) {
	e := cointax.LedgerEntry{
		Category:      commissionCategory,
		Operation:     commissionOperation,
		Remark:        row.OrderType,
		OrderID:       row.FriendID,
		TransactionID: row.ReferralID,
		Source:        p.source(commissionCategory, commissionOperation),
	}
	var err error
	if e.Time, err = p.time("Commission Time", row.Time); err != nil {
		return e, err
	}
	if e.Asset, err = p.required("Commission Asset", row.Asset); err != nil {
		return e, err
	}
	if e.Change, err = p.quantity("Commission Earned", row.Earned); err != nil {
		return e, err
	}
	// USDT is the closest to a USD value this export offers.
	if e.USDValue, err = p.optional("Commission Earned (USDT)", row.EarnedUSDT); err != nil {
		return e, err
	}
	return e, nil
}
