package analytics

import "math"

// Style labels a trader's holding horizon, sizing discipline, and risk
// appetite. Labels are empty strings when the underlying data is missing
// (no completed buy/sell pairs, no sizes, no leverage annotations).
type Style struct {
	AvgHoldingPeriodHours   float64 `json:"avg_holding_period_hours,omitempty"`
	PrimaryStyle            string  `json:"primary_style,omitempty"`
	PositionSizeConsistency float64 `json:"position_size_consistency"`
	SizingApproach          string  `json:"sizing_approach,omitempty"`
	AvgLeverage             float64 `json:"avg_leverage,omitempty"`
	RiskProfile             string  `json:"risk_profile,omitempty"`
}

// Classify derives style labels from the normalized event sequence plus
// optional per-instrument leverage annotations.
//
// Holding periods pair the i-th buy with the i-th sell per instrument in
// chronological order. This sequence-indexed pairing is intentionally a
// different contract from the ledger's side-opposition matching; the two
// coexist and must not be unified (see DESIGN.md).
func Classify(events []Event, leverages []float64) Style {
	var style Style
	if len(events) == 0 {
		classifyLeverage(&style, leverages)
		return style
	}

	if hours, ok := avgHoldingHours(events); ok {
		style.AvgHoldingPeriodHours = hours
		switch {
		case hours < 1:
			style.PrimaryStyle = "Scalper"
		case hours < 24:
			style.PrimaryStyle = "Day Trader"
		case hours < 168:
			style.PrimaryStyle = "Swing Trader"
		default:
			style.PrimaryStyle = "Position Trader"
		}
	}

	if cv, ok := sizeVariation(events); ok {
		style.PositionSizeConsistency = cv
		switch {
		case cv < 0.3:
			style.SizingApproach = "Very Consistent"
		case cv < 0.7:
			style.SizingApproach = "Moderately Consistent"
		default:
			style.SizingApproach = "Variable"
		}
	}

	classifyLeverage(&style, leverages)
	return style
}

func classifyLeverage(style *Style, leverages []float64) {
	if len(leverages) == 0 {
		return
	}
	sum := 0.0
	for _, lev := range leverages {
		sum += lev
	}
	avg := sum / float64(len(leverages))
	style.AvgLeverage = avg
	switch {
	case avg < 2:
		style.RiskProfile = "Conservative"
	case avg < 5:
		style.RiskProfile = "Moderate"
	case avg < 10:
		style.RiskProfile = "Aggressive"
	default:
		style.RiskProfile = "Very Aggressive"
	}
}

// avgHoldingHours pairs buys and sells per instrument by sequence index and
// averages the spans where the sell strictly follows its paired buy.
func avgHoldingHours(events []Event) (float64, bool) {
	buys := make(map[string][]Event)
	sells := make(map[string][]Event)
	order := make([]string, 0)
	seen := make(map[string]bool)
	for _, ev := range events {
		if !seen[ev.Instrument] {
			seen[ev.Instrument] = true
			order = append(order, ev.Instrument)
		}
		switch ev.Side {
		case SideBuy:
			buys[ev.Instrument] = append(buys[ev.Instrument], ev)
		case SideSell:
			sells[ev.Instrument] = append(sells[ev.Instrument], ev)
		}
	}

	var sum float64
	var count int
	for _, instrument := range order {
		b, s := buys[instrument], sells[instrument]
		pairs := len(b)
		if len(s) < pairs {
			pairs = len(s)
		}
		for i := 0; i < pairs; i++ {
			if s[i].Time.After(b[i].Time) {
				sum += s[i].Time.Sub(b[i].Time).Hours()
				count++
			}
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// sizeVariation returns the coefficient of variation of event sizes using the
// sample standard deviation. Fewer than two sizes count as perfectly
// consistent (zero variation).
func sizeVariation(events []Event) (float64, bool) {
	sizes := make([]float64, 0, len(events))
	sum := 0.0
	for _, ev := range events {
		sizes = append(sizes, ev.Size)
		sum += ev.Size
	}
	if len(sizes) == 0 {
		return 0, false
	}
	mean := sum / float64(len(sizes))
	if mean <= 0 {
		return 0, true
	}
	if len(sizes) < 2 {
		return 0, true
	}
	var sq float64
	for _, size := range sizes {
		d := size - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(sizes)-1))
	return std / mean, true
}
