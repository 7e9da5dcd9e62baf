package cointax

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/etnz/cointax/date"
)

func TestWindowConsolidator_Singleton(t *testing.T) {
	e := withLine(entry("2021-06-01 10:00:00", "Distribution", "Referral Commission", "BNB", "0.0001"), 7)
	e.OrderID, e.TransactionID = "o1", "t1"
	e.USDValue = MustQ("0.03")

	got := NewWindowConsolidator().Consolidate([]LedgerEntry{e})
	if len(got) != 1 {
		t.Fatalf("Consolidate() returned %d entries, want 1", len(got))
	}
	if diff := cmp.Diff(e, got[0], quantityEqual); diff != "" {
		t.Errorf("Consolidate() singleton mismatch (-want +got):\n%s", diff)
	}
	if got[0].Change.String() != e.Change.String() {
		t.Errorf("Consolidate() singleton change = %s, want exactly %s", got[0].Change, e.Change)
	}
}

func TestWindowConsolidator_Consolidate(t *testing.T) {
	ref := func(ts, change string, line int) LedgerEntry {
		e := withLine(entry(ts, "Distribution", "Referral Commission", "BNB", change), line)
		e.OrderID = "o" + ts
		return e
	}
	withdraw := withLine(entry("2021-06-01 18:00:00", "Withdrawal", "Crypto Withdrawal", "BNB", "-1"), 4)

	tests := []struct {
		name  string
		input []LedgerEntry
		want  []LedgerEntry // only Time, Change, Line and OrderID are checked
	}{
		{
			name: "same day merged into the last member",
			input: []LedgerEntry{
				ref("2021-06-01 01:00:00", "0.1", 2),
				ref("2021-06-01 12:00:00", "0.2", 3),
				ref("2021-06-01 23:59:59", "0.3", 4),
			},
			want: []LedgerEntry{ref("2021-06-01 23:59:59", "0.6", 4)},
		},
		{
			name: "rollover starts a new window",
			input: []LedgerEntry{
				ref("2021-06-01 01:00:00", "0.1", 2),
				ref("2021-06-02 00:30:00", "0.2", 3),
				ref("2021-06-02 05:00:00", "0.3", 4),
			},
			want: []LedgerEntry{
				ref("2021-06-01 01:00:00", "0.1", 2),
				ref("2021-06-02 05:00:00", "0.5", 4),
			},
		},
		{
			name: "non matching entry stops the run",
			input: []LedgerEntry{
				ref("2021-06-01 01:00:00", "0.1", 2),
				ref("2021-06-01 02:00:00", "0.2", 3),
				withdraw,
				ref("2021-06-01 19:00:00", "0.3", 5),
				ref("2021-06-01 20:00:00", "0.4", 6),
			},
			want: []LedgerEntry{
				ref("2021-06-01 02:00:00", "0.3", 3),
				withdraw,
				ref("2021-06-01 20:00:00", "0.7", 6),
			},
		},
		{
			name: "non consolidatable entries kept",
			input: []LedgerEntry{
				withLine(spot("2021-06-01 01:00:00", "Deposit", "BNB", "1"), 2),
				withLine(spot("2021-06-01 02:00:00", "Deposit", "BNB", "2"), 3),
			},
			want: []LedgerEntry{
				withLine(spot("2021-06-01 01:00:00", "Deposit", "BNB", "1"), 2),
				withLine(spot("2021-06-01 02:00:00", "Deposit", "BNB", "2"), 3),
			},
		},
		{
			name: "window opened at midnight spans the day",
			input: []LedgerEntry{
				ref("2021-06-01 00:00:00", "1", 2),
				ref("2021-06-01 08:00:00", "2", 3),
				ref("2021-06-01 23:59:59.999", "3", 4),
				ref("2021-06-02 00:00:00", "4", 5),
			},
			want: []LedgerEntry{
				ref("2021-06-01 23:59:59.999", "6", 4),
				ref("2021-06-02 00:00:00", "4", 5),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := slices.Clone(tt.input)
			got := NewWindowConsolidator().Consolidate(input)
			if diff := cmp.Diff(tt.input, input, quantityEqual); diff != "" {
				t.Errorf("Consolidate() modified its input (-before +after):\n%s", diff)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Consolidate() = %v, want %v", got, tt.want)
			}
			for i := range got {
				g, w := got[i], tt.want[i]
				if g.Time != w.Time || !g.Change.Equal(w.Change) || g.Source.Line != w.Source.Line || g.OrderID != w.OrderID {
					t.Errorf("Consolidate()[%d] = %v (order %q), want %v (order %q)", i, g, g.OrderID, w, w.OrderID)
				}
			}
			if !sumChange(got).Equal(sumChange(tt.input)) {
				t.Errorf("Consolidate() sum = %s, want %s", sumChange(got), sumChange(tt.input))
			}
		})
	}
}

func TestWindowConsolidator_Step(t *testing.T) {
	w := WindowConsolidator{Period: date.Daily, Consolidatable: IsConsolidatable}
	e := entry("2021-06-01 10:00:00", "Spot", "Staking Rewards", "ADA", "1")

	state, out := w.step(scanning{}, nil, e)
	want := accumulating{user: "1", key: e.Key(), end: at("2021-06-02 00:00:00")}
	if state != want {
		t.Fatalf("step(scanning) state = %#v, want %#v", state, want)
	}
	if len(out) != 1 {
		t.Fatalf("step(scanning) emitted %d entries, want 1", len(out))
	}

	other := spot("2021-06-01 11:00:00", "Deposit", "ADA", "1")
	state, out = w.step(state, out, other)
	if _, ok := state.(scanning); !ok {
		t.Errorf("step(accumulating, other key) state = %#v, want scanning", state)
	}
	if len(out) != 2 {
		t.Errorf("step(accumulating, other key) emitted %d entries, want 2", len(out))
	}
}

func TestWindowConsolidator_OtherUser(t *testing.T) {
	first := withLine(entry("2021-06-01 20:00:00", "Spot", "Staking Rewards", "ADA", "1"), 2)
	second := withLine(entry("2021-06-01 08:00:00", "Spot", "Staking Rewards", "ADA", "2"), 3)
	second.UserID = "2"

	got := NewWindowConsolidator().Consolidate([]LedgerEntry{first, second})
	if len(got) != 2 {
		t.Fatalf("Consolidate() = %v, want one entry per user", got)
	}
	if got[0].Time != first.Time || !got[0].Change.Equal(first.Change) {
		t.Errorf("Consolidate()[0] = %v, want %v", got[0], first)
	}
	if got[1].UserID != "2" || !got[1].Change.Equal(second.Change) {
		t.Errorf("Consolidate()[1] = %v, want %v", got[1], second)
	}
}

func TestWindowConsolidator_WeeklyPeriod(t *testing.T) {
	w := WindowConsolidator{Period: date.Weekly}
	input := []LedgerEntry{
		entry("2021-06-01 10:00:00", "Spot", "Super BNB Mining", "BNB", "0.1"),
		entry("2021-06-03 10:00:00", "Spot", "Super BNB Mining", "BNB", "0.1"),
	}
	got := w.Consolidate(input)
	if len(got) != 1 || !got[0].Change.Equal(MustQ("0.2")) {
		t.Errorf("Consolidate() = %v, want one 0.2 entry", got)
	}
}
