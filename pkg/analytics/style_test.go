package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func eventAt(instrument string, side Side, size float64, at time.Time) Event {
	return Event{Instrument: instrument, Side: side, Size: size, Time: at, Status: StatusFilled}
}

func TestClassify_EmptyEvents(t *testing.T) {
	style := Classify(nil, nil)
	assert.Empty(t, style.PrimaryStyle)
	assert.Empty(t, style.SizingApproach)
	assert.Empty(t, style.RiskProfile)
}

func TestClassify_PrimaryStyleThresholds(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		holding time.Duration
		want    string
	}{
		{"scalper", 30 * time.Minute, "Scalper"},
		{"day trader", 6 * time.Hour, "Day Trader"},
		{"swing trader", 3 * 24 * time.Hour, "Swing Trader"},
		{"position trader", 30 * 24 * time.Hour, "Position Trader"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := []Event{
				eventAt("BTC", SideBuy, 1, base),
				eventAt("BTC", SideSell, 1, base.Add(tc.holding)),
			}
			style := Classify(events, nil)
			assert.Equal(t, tc.want, style.PrimaryStyle)
			assert.InDelta(t, tc.holding.Hours(), style.AvgHoldingPeriodHours, 1e-9)
		})
	}
}

func TestClassify_PairsBySequenceIndex(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	// Two buys then two sells: pairing is (buy1,sell1), (buy2,sell2) by
	// index, not by the ledger's offset matching.
	events := []Event{
		eventAt("BTC", SideBuy, 1, base),
		eventAt("BTC", SideBuy, 1, base.Add(1*time.Hour)),
		eventAt("BTC", SideSell, 1, base.Add(2*time.Hour)),
		eventAt("BTC", SideSell, 1, base.Add(4*time.Hour)),
	}
	style := Classify(events, nil)
	// Holding: (2h-0h) and (4h-1h) average to 2.5h.
	assert.InDelta(t, 2.5, style.AvgHoldingPeriodHours, 1e-9)
	assert.Equal(t, "Day Trader", style.PrimaryStyle)
}

func TestClassify_SellBeforeBuyExcluded(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		eventAt("BTC", SideSell, 1, base),
		eventAt("BTC", SideBuy, 1, base.Add(1*time.Hour)),
	}
	style := Classify(events, nil)
	assert.Empty(t, style.PrimaryStyle, "a sell preceding its paired buy yields no holding sample")
}

func TestClassify_SizingApproach(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		sizes []float64
		want  string
	}{
		{"uniform sizes", []float64{5, 5, 5, 5}, "Very Consistent"},
		{"moderate spread", []float64{5, 7, 4, 6, 9}, "Moderately Consistent"},
		{"wild spread", []float64{1, 20, 2, 50}, "Variable"},
		{"single event", []float64{3}, "Very Consistent"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := make([]Event, 0, len(tc.sizes))
			for i, size := range tc.sizes {
				events = append(events, eventAt("BTC", SideBuy, size, base.Add(time.Duration(i)*time.Minute)))
			}
			style := Classify(events, nil)
			assert.Equal(t, tc.want, style.SizingApproach)
		})
	}
}

func TestClassify_RiskProfile(t *testing.T) {
	cases := []struct {
		name      string
		leverages []float64
		want      string
	}{
		{"conservative", []float64{1, 1.5}, "Conservative"},
		{"moderate", []float64{3, 4}, "Moderate"},
		{"aggressive", []float64{8, 7}, "Aggressive"},
		{"very aggressive", []float64{20, 25}, "Very Aggressive"},
		{"no data", nil, ""},
	}

	events := []Event{eventAt("BTC", SideBuy, 1, time.Unix(0, 0))}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			style := Classify(events, tc.leverages)
			assert.Equal(t, tc.want, style.RiskProfile)
		})
	}
}

func TestClassify_HoldingPeriodsAcrossInstruments(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		eventAt("BTC", SideBuy, 1, base),
		eventAt("ETH", SideBuy, 1, base),
		eventAt("BTC", SideSell, 1, base.Add(2*time.Hour)),
		eventAt("ETH", SideSell, 1, base.Add(6*time.Hour)),
	}
	style := Classify(events, nil)
	assert.InDelta(t, 4.0, style.AvgHoldingPeriodHours, 1e-9)
}
