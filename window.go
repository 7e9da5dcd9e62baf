package cointax

import "github.com/etnz/cointax/date"

// windowState is the state of the window consolidation automaton: either
// scanning or accumulating.
type windowState interface{ windowState() }

// scanning is the initial and terminal state.
type scanning struct{}

// accumulating merges entries of user and key until end (excluded).
type accumulating struct {
	user string
	key  Key
	end  int64 // window end, milliseconds
}

func (scanning) windowState()     {}
func (accumulating) windowState() {}

// WindowConsolidator collapses runs of repeated entries of a consolidatable
// pair into one entry per time window.
type WindowConsolidator struct {
	// Period is the window size, daily by default.
	Period date.Period
	// Consolidatable tells which pairs may be consolidated. Defaults to
	// IsConsolidatable.
	Consolidatable func(Key) bool
}

// NewWindowConsolidator returns a daily consolidator over the default allow-list.
func NewWindowConsolidator() WindowConsolidator {
	return WindowConsolidator{Period: date.Daily, Consolidatable: IsConsolidatable}
}

func (w WindowConsolidator) consolidatable(k Key) bool {
	if w.Consolidatable == nil {
		return IsConsolidatable(k)
	}
	return w.Consolidatable(k)
}

// step applies one entry to the automaton and returns the next state and
// the extended output.
func (w WindowConsolidator) step(state windowState, out []LedgerEntry, e LedgerEntry) (windowState, []LedgerEntry) {
	switch s := state.(type) {
	case scanning:
		out = append(out, e)
		if w.consolidatable(e.Key()) {
			return accumulating{user: e.UserID, key: e.Key(), end: w.Period.Next(e.Time)}, out
		}
		return scanning{}, out

	case accumulating:
		if e.UserID != s.user || e.Key() != s.key {
			return scanning{}, append(out, e)
		}
		if e.Time >= s.end {
			return accumulating{user: s.user, key: s.key, end: w.Period.Next(e.Time)}, append(out, e)
		}
		last := &out[len(out)-1]
		last.Change = last.Change.Add(e.Change)
		last.USDValue = last.USDValue.Add(e.USDValue)
		last.OrderID = e.OrderID
		last.TransactionID = e.TransactionID
		last.Time = e.Time
		last.Source = e.Source
		return s, out

	default:
		panic("unknown window state")
	}
}

// Consolidate runs the automaton over one asset's entries, in order. The
// input is not modified and the output keeps the input order.
func (w WindowConsolidator) Consolidate(entries []LedgerEntry) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(entries))
	var state windowState = scanning{}
	for _, e := range entries {
		state, out = w.step(state, out, e)
	}
	return out
}
