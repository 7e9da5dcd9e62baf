package cointax

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/etnz/cointax/date"
)

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Window        date.Period // window consolidation bucket
	Period        date.Period // Income consolidation bucket
	WindowEnabled bool
	PeriodEnabled bool
	Classifier    Classifier
	Logger        zerolog.Logger
}

// DefaultPipelineOptions returns daily window and monthly Income
// consolidation, with logs disabled.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Window:        date.Daily,
		Period:        date.Monthly,
		WindowEnabled: true,
		PeriodEnabled: true,
		Classifier:    Classifier{Exchanges: DefaultExchanges()},
		Logger:        zerolog.Nop(),
	}
}

// Counters are the aggregate figures of a run.
type Counters struct {
	Read         int            `json:"read"`         // entries received
	Aligned      int            `json:"aligned"`      // entries after leg alignment
	Consolidated int            `json:"consolidated"` // entries after window consolidation
	Classified   int            `json:"classified"`   // records out of the classifier
	Emitted      int            `json:"emitted"`      // records after period consolidation
	ByType       map[TxType]int `json:"by_type"`
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID    string                  `json:"run_id"`
	Records  []TaxRecord             `json:"records"`
	Assets   map[string]*AssetLedger `json:"-"`
	Counters Counters                `json:"counters"`
}

// Pipeline turns ledger entries into tax records.
type Pipeline struct {
	opts PipelineOptions
}

// NewPipeline returns a pipeline configured with opts.
func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{opts: opts}
}

// Run sorts, aligns and partitions entries, then for each asset consolidates
// the entries per window, classifies them and consolidates Income records
// per period.
//
// entries is not modified. The first error aborts the run.
func (p *Pipeline) Run(entries []LedgerEntry) (*Result, error) {
	res := &Result{
		RunID:    uuid.NewString(),
		Counters: Counters{Read: len(entries), ByType: make(map[TxType]int)},
	}
	log := p.opts.Logger.With().Str("run", res.RunID).Logger()

	sorted := slices.Clone(entries)
	SortEntries(sorted)
	aligned, err := AlignLegs(sorted)
	if err != nil {
		return nil, fmt.Errorf("cannot align trade legs: %w", err)
	}
	res.Counters.Aligned = len(aligned)

	res.Assets = Partition(aligned)
	window := WindowConsolidator{Period: p.opts.Window, Consolidatable: IsConsolidatable}
	period := PeriodConsolidator{Period: p.opts.Period}

	for asset, l := range SortedAssets(res.Assets) {
		l.Consolidated = slices.Clone(l.Entries)
		if p.opts.WindowEnabled {
			l.Consolidated = window.Consolidate(l.Entries)
		}
		if got := sumChange(l.Consolidated); !got.Equal(l.Quantity) {
			return nil, &ConservationError{Asset: asset, Stage: "window consolidation", Want: l.Quantity, Got: got}
		}
		SortEntries(l.Consolidated)
		res.Counters.Consolidated += len(l.Consolidated)

		records := make([]TaxRecord, 0, len(l.Consolidated))
		for _, e := range l.Consolidated {
			r, err := p.opts.Classifier.Classify(e)
			if err != nil {
				return nil, fmt.Errorf("cannot classify %s entry: %w", asset, err)
			}
			records = append(records, r)
		}
		res.Counters.Classified += len(records)

		SortRecords(records)
		if p.opts.PeriodEnabled {
			want := incomeSum(records)
			records = period.Consolidate(records)
			if got := incomeSum(records); !got.Equal(want) {
				return nil, &ConservationError{Asset: asset, Stage: "period consolidation", Want: want, Got: got}
			}
		}

		log.Debug().
			Str("asset", asset).
			Int("entries", len(l.Entries)).
			Int("consolidated", len(l.Consolidated)).
			Int("records", len(records)).
			Str("quantity", l.Quantity.String()).
			Msg("asset processed")
		res.Records = append(res.Records, records...)
	}

	// Assets were appended in name order, the stable sort keeps it for
	// records sharing a time.
	slices.SortStableFunc(res.Records, func(a, b TaxRecord) int { return cmp.Compare(a.Time, b.Time) })
	for _, r := range res.Records {
		res.Counters.ByType[r.Type]++
	}
	res.Counters.Emitted = len(res.Records)

	log.Info().
		Int("read", res.Counters.Read).
		Int("aligned", res.Counters.Aligned).
		Int("consolidated", res.Counters.Consolidated).
		Int("classified", res.Counters.Classified).
		Int("emitted", res.Counters.Emitted).
		Int("assets", len(res.Assets)).
		Msg("pipeline done")
	return res, nil
}

// Run processes entries with the default options.
func Run(entries []LedgerEntry) (*Result, error) {
	return NewPipeline(DefaultPipelineOptions()).Run(entries)
}
