package cointax

// Statement exports split a trade over several lines sharing one timestamp:
// the acquired asset, the disposed asset and the fee, each on its own line.
var (
	tradeLegs = map[Key]struct{}{
		{"Spot", "Buy"}:                 {},
		{"Spot", "Sell"}:                {},
		{"Spot", "Transaction Related"}: {},
	}
	feeLegs = map[Key]struct{}{
		{"Spot", "Fee"}: {},
	}
	// Dust conversions debit each small balance and credit BNB for it.
	dustLegs = map[Key]struct{}{
		{"Spot", "Small assets exchange BNB"}: {},
	}
)

// AlignLegs merges the legs of multi-leg trades into single entries.
//
// entries must be in canonical order (see SortEntries). Entries sharing user,
// time and category form a group; the trade legs of a group are split into
// credits and debits, each kept in canonical order, and the k-th credit is
// paired with the k-th debit and the k-th fee. The merged entry is the base
// leg (the credit of a Buy, the debit of a Sell) carrying the other legs in
// Quote and Fee. Dust conversion legs pair the same way: the BNB credit
// carries the converted asset as its quote. Entries that already carry a
// quote leg, and entries that are not trade, dust or fee legs, are returned
// unchanged.
//
// The result is in canonical order.
func AlignLegs(entries []LedgerEntry) ([]LedgerEntry, error) {
	out := make([]LedgerEntry, 0, len(entries))
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && sameGroup(entries[i], entries[j]) {
			j++
		}
		merged, err := alignGroup(entries[i:j])
		if err != nil {
			return nil, err
		}
		out = append(out, merged...)
		i = j
	}
	SortEntries(out)
	return out, nil
}

func sameGroup(a, b LedgerEntry) bool {
	return a.UserID == b.UserID && a.Time == b.Time && a.Category == b.Category
}

func alignGroup(group []LedgerEntry) ([]LedgerEntry, error) {
	var trades, fees, dust, out []LedgerEntry
	for _, e := range group {
		_, isTrade := tradeLegs[e.Key()]
		_, isFee := feeLegs[e.Key()]
		_, isDust := dustLegs[e.Key()]
		switch {
		case isTrade && e.Quote.IsZero():
			trades = append(trades, e)
		case isDust && e.Quote.IsZero():
			dust = append(dust, e)
		case isFee:
			fees = append(fees, e)
		default:
			out = append(out, e)
		}
	}
	out, err := alignDust(out, dust)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		// Fees without trades are standalone spends.
		return append(out, fees...), nil
	}

	var op string
	for _, e := range trades {
		if e.Operation != "Buy" && e.Operation != "Sell" {
			continue
		}
		if op != "" && op != e.Operation {
			return nil, newSemanticError(e, "both Buy and Sell legs at the same time")
		}
		op = e.Operation
	}
	if op == "" {
		return nil, newSemanticError(trades[0], "trade legs without a Buy or Sell leg")
	}

	credits, debits, err := splitLegs(trades)
	if err != nil {
		return nil, err
	}
	if len(credits) != len(debits) {
		return nil, newSemanticError(trades[0], "unbalanced trade legs: %d credits, %d debits", len(credits), len(debits))
	}
	if len(fees) != 0 && len(fees) != len(credits) {
		return nil, newSemanticError(fees[0], "%d fee legs for %d trades", len(fees), len(credits))
	}

	for k := range credits {
		base, quote := credits[k], debits[k]
		if op == "Sell" {
			base, quote = quote, base
		}
		merged := base
		merged.Operation = op
		merged.Quote = Leg{Asset: quote.Asset, Amount: quote.Change}
		if len(fees) != 0 {
			merged.Fee = Leg{Asset: fees[k].Asset, Amount: fees[k].Change}
		}
		out = append(out, merged)
	}
	return out, nil
}

// alignDust pairs the k-th BNB credit of a dust conversion with the k-th
// debit. Debits without any credit are left alone and classify as spends.
func alignDust(out, dust []LedgerEntry) ([]LedgerEntry, error) {
	credits, debits, err := splitLegs(dust)
	if err != nil {
		return nil, err
	}
	if len(credits) == 0 {
		return append(out, debits...), nil
	}
	if len(credits) != len(debits) {
		return nil, newSemanticError(credits[0], "unbalanced dust conversion: %d credits, %d debits", len(credits), len(debits))
	}
	for k, credit := range credits {
		credit.Quote = Leg{Asset: debits[k].Asset, Amount: debits[k].Change}
		out = append(out, credit)
	}
	return out, nil
}

// splitLegs splits legs into credits and debits, each kept in order.
func splitLegs(legs []LedgerEntry) (credits, debits []LedgerEntry, err error) {
	for _, e := range legs {
		switch e.Change.Sign() {
		case 1:
			credits = append(credits, e)
		case -1:
			debits = append(debits, e)
		default:
			return nil, nil, newSemanticError(e, "leg with zero change")
		}
	}
	return credits, debits, nil
}
