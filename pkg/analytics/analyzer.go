package analytics

import "time"

// Report is the complete analysis output for one trader: the aggregated
// metrics, the style labels, the reputation score, and whatever exposure was
// still open when the event stream ended.
type Report struct {
	Address       string              `json:"user_address"`
	GeneratedAt   time.Time           `json:"timestamp"`
	Metrics       Metrics             `json:"metrics"`
	Style         Style               `json:"trading_style"`
	Reputation    Reputation          `json:"reputation_scores"`
	OpenPositions map[string]Position `json:"open_positions,omitempty"`
}

// Analyzer runs the full pipeline: ledger replay, metric aggregation, style
// classification, and reputation scoring. It holds no per-trader state, so a
// single Analyzer may serve concurrent analyses.
type Analyzer struct {
	nowFn func() time.Time
}

// NewAnalyzer constructs an Analyzer using the wall clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{nowFn: time.Now}
}

// WithClock overrides the report timestamp source, mainly for tests.
func (a *Analyzer) WithClock(nowFn func() time.Time) *Analyzer {
	if nowFn != nil {
		a.nowFn = nowFn
	}
	return a
}

// Analyze replays the normalized events through the ledger and derives the
// trader's profile. Events must be sorted ascending by timestamp (the
// normalizer guarantees this); leverages may be nil when unavailable.
// The input slices are not retained or mutated.
func (a *Analyzer) Analyze(address string, events []Event, leverages []float64) *Report {
	ledger := NewLedger()
	trades := ledger.Replay(events)

	metrics := Aggregate(events, trades)
	style := Classify(events, leverages)

	report := &Report{
		Address:     address,
		GeneratedAt: a.nowFn().UTC(),
		Metrics:     metrics,
		Style:       style,
		Reputation:  Score(metrics, style),
	}
	if open := ledger.OpenPositions(); len(open) > 0 {
		report.OpenPositions = open
	}
	return report
}
