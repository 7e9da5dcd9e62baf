package renderer

import (
	"cmp"
	"slices"

	"github.com/Rhymond/go-money"

	"github.com/etnz/cointax"
	"github.com/etnz/cointax/date"
)

// Summary is the view of a pipeline result used by the templates.
type Summary struct {
	RunID    string
	Counters cointax.Counters
	ByType   []TypeCount
	Assets   []AssetLine
	Income   []IncomeLine
	// IncomeUSD is the USD value of all Income records.
	IncomeUSD string
}

type TypeCount struct {
	Type  string
	Count int
}

type AssetLine struct {
	Asset        string
	Balance      string // quantity including the trade legs in the asset
	Entries      int
	Consolidated int
}

// IncomeLine is the Income of one asset in one month.
type IncomeLine struct {
	Month   string // 2006-01
	Asset   string
	Amount  string
	Records int
	USD     string
}

// USD formats q as US dollars, rounded to the cent.
func USD(q cointax.Quantity) string {
	cents := q.Decimal().Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// NewSummary computes the summary of res.
func NewSummary(res *cointax.Result) *Summary {
	s := &Summary{RunID: res.RunID, Counters: res.Counters}

	for _, t := range cointax.AllTxTypes() {
		if n := res.Counters.ByType[t]; n > 0 {
			s.ByType = append(s.ByType, TypeCount{Type: t.String(), Count: n})
		}
	}

	for asset, l := range cointax.SortedAssets(res.Assets) {
		s.Assets = append(s.Assets, AssetLine{
			Asset:        asset,
			Balance:      l.Balance.String(),
			Entries:      len(l.Entries),
			Consolidated: len(l.Consolidated),
		})
	}

	type key struct{ month, asset string }
	type total struct {
		amount, usd cointax.Quantity
		records     int
	}
	totals := make(map[key]*total)
	var usd cointax.Quantity
	for _, r := range res.Records {
		if r.Type != cointax.Income {
			continue
		}
		k := key{month: date.FromMillis(r.Time).Format("2006-01"), asset: r.BuyCurrency}
		t, ok := totals[k]
		if !ok {
			t = new(total)
			totals[k] = t
		}
		t.amount = t.amount.Add(r.BuyAmount)
		t.usd = t.usd.Add(r.USDValue)
		t.records++
		usd = usd.Add(r.USDValue)
	}
	for k, t := range totals {
		s.Income = append(s.Income, IncomeLine{Month: k.month, Asset: k.asset, Amount: t.amount.String(), Records: t.records, USD: USD(t.usd)})
	}
	slices.SortFunc(s.Income, func(a, b IncomeLine) int {
		if c := cmp.Compare(a.Month, b.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.Asset, b.Asset)
	})
	s.IncomeUSD = USD(usd)
	return s
}
