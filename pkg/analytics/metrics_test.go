package analytics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_EmptyInput(t *testing.T) {
	m := Aggregate(nil, nil)
	assert.Zero(t, m.TotalOrders)
	assert.Nil(t, m.Performance, "no realized trades means no performance block")
	assert.Nil(t, m.HourlyDistribution)
}

func TestAggregate_ActivityWindow(t *testing.T) {
	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	events := []Event{
		{Instrument: "BTC", Side: SideBuy, Size: 1, Time: first, Status: StatusFilled},
		{Instrument: "BTC", Side: SideSell, Size: 1, Time: first.Add(49 * time.Hour), Status: StatusFilled},
	}

	m := Aggregate(events, nil)
	assert.Equal(t, first, m.FirstActivity)
	assert.Equal(t, 2, m.TotalOrders)
	// 49h spans ceil(49/24)+1 = 4 calendar days.
	assert.Equal(t, 4, m.ActiveDays)
	assert.InDelta(t, 0.5, m.ActivityFrequency, 1e-12)
}

func TestAggregate_HourHistogramAndPeak(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // a Monday
	events := []Event{
		{Instrument: "A", Time: day.Add(9 * time.Hour)},
		{Instrument: "A", Time: day.Add(9*time.Hour + 30*time.Minute)},
		{Instrument: "A", Time: day.Add(15 * time.Hour)},
		{Instrument: "A", Time: day.Add(15 * time.Hour).Add(24 * time.Hour)},
	}

	m := Aggregate(events, nil)
	assert.Equal(t, map[int]int{9: 2, 15: 2}, m.HourlyDistribution)
	assert.Equal(t, 9, m.PeakActivityHour, "ties resolve to the earliest hour")
	assert.Equal(t, map[string]int{"Monday": 3, "Tuesday": 1}, m.DailyDistribution)
}

func TestAggregate_VolumeBias(t *testing.T) {
	events := []Event{
		{Instrument: "A", Side: SideBuy, Size: 10, Time: time.Unix(0, 0)},
		{Instrument: "A", Side: SideSell, Size: 4, Time: time.Unix(1, 0)},
	}

	m := Aggregate(events, nil)
	assert.Equal(t, "Long", m.PositionBias)
	assert.InDelta(t, 2.5, m.LongShortRatio, 1e-12)
	assert.InDelta(t, 10.0/14*100, m.BuyPercentage, 1e-9)

	onlyBuys := Aggregate([]Event{{Instrument: "A", Side: SideBuy, Size: 1, Time: time.Unix(0, 0)}}, nil)
	assert.True(t, math.IsInf(onlyBuys.LongShortRatio, 1), "no sell volume yields +Inf ratio")
}

func TestAggregate_ConcentrationSingleAsset(t *testing.T) {
	events := []Event{
		{Instrument: "BTC", Time: time.Unix(0, 0)},
		{Instrument: "BTC", Time: time.Unix(1, 0)},
		{Instrument: "BTC", Time: time.Unix(2, 0)},
	}

	m := Aggregate(events, nil)
	assert.InDelta(t, 1.0, m.AssetConcentration, 1e-12)
	assert.Equal(t, "Low", m.Diversification)
	assert.Equal(t, "BTC", m.MostTradedAsset)
	assert.Equal(t, 1, m.AssetCount)
}

func TestAggregate_ConcentrationLabelInvariantToRelabeling(t *testing.T) {
	build := func(names [3]string) []Event {
		events := make([]Event, 0, 9)
		counts := []int{5, 3, 1}
		ts := 0
		for i, name := range names {
			for n := 0; n < counts[i]; n++ {
				events = append(events, Event{Instrument: name, Time: time.Unix(int64(ts), 0)})
				ts++
			}
		}
		return events
	}

	a := Aggregate(build([3]string{"BTC", "ETH", "SOL"}), nil)
	b := Aggregate(build([3]string{"SOL", "BTC", "ETH"}), nil)
	assert.InDelta(t, a.AssetConcentration, b.AssetConcentration, 1e-12,
		"Herfindahl index ignores instrument labels")
	assert.Equal(t, a.Diversification, b.Diversification)
}

func TestAggregate_PerformanceFigures(t *testing.T) {
	trades := []RealizedTrade{
		{PnL: 20, Size: 2},
		{PnL: -5, Size: 1},
		{PnL: 10, Size: 3},
	}
	events := []Event{{Instrument: "A", Time: time.Unix(0, 0)}}

	m := Aggregate(events, trades)
	require.NotNil(t, m.Performance)
	perf := m.Performance
	assert.Equal(t, 3, perf.TotalTrades)
	assert.InDelta(t, 25.0, perf.TotalPnl, 1e-12)
	assert.InDelta(t, 2.0/3.0, perf.WinRate, 1e-12)
	assert.InDelta(t, 15.0, perf.AvgWin, 1e-12)
	assert.InDelta(t, 5.0, perf.AvgLoss, 1e-12)
	assert.InDelta(t, 3.0, perf.RiskRewardRatio, 1e-12)
	assert.InDelta(t, 2.0, perf.AvgPositionSize, 1e-12)
	assert.InDelta(t, 3.0, perf.MaxPositionSize, 1e-12)
}

func TestAggregate_RiskRewardInfiniteWithoutLosses(t *testing.T) {
	events := []Event{{Instrument: "A", Time: time.Unix(0, 0)}}
	m := Aggregate(events, []RealizedTrade{{PnL: 5, Size: 1}, {PnL: 3, Size: 1}})

	require.NotNil(t, m.Performance)
	assert.True(t, math.IsInf(m.Performance.RiskRewardRatio, 1))
	assert.True(t, math.IsNaN(m.Performance.AvgLoss), "no losing trades leaves avg loss undefined")
}

func TestAggregate_AvgWinUndefinedWithoutWins(t *testing.T) {
	events := []Event{{Instrument: "A", Time: time.Unix(0, 0)}}
	m := Aggregate(events, []RealizedTrade{{PnL: -5, Size: 1}})

	require.NotNil(t, m.Performance)
	assert.True(t, math.IsNaN(m.Performance.AvgWin))
	assert.Zero(t, m.Performance.WinRate)
}

func TestMaxDrawdown_MonotonicSeriesIsZero(t *testing.T) {
	trades := []RealizedTrade{{PnL: 1}, {PnL: 2}, {PnL: 0}, {PnL: 5}}
	assert.Zero(t, maxDrawdown(trades))
}

func TestMaxDrawdown_PeakToTrough(t *testing.T) {
	// Cumulative: 10, 30, 15, 24 — trough 15 against peak 30.
	trades := []RealizedTrade{{PnL: 10}, {PnL: 20}, {PnL: -15}, {PnL: 9}}
	assert.InDelta(t, 0.5, maxDrawdown(trades), 1e-12)
}

func TestMaxDrawdown_ZeroPeakGuard(t *testing.T) {
	// Running max never exceeds zero: the ratio is undefined, treated as 0.
	trades := []RealizedTrade{{PnL: 0}, {PnL: -10}}
	assert.Zero(t, maxDrawdown(trades))
}

func TestMaxDrawdown_EmptySeries(t *testing.T) {
	assert.Zero(t, maxDrawdown(nil))
}

func TestAggregate_MostTradedAssetTieBreak(t *testing.T) {
	events := []Event{
		{Instrument: "ETH", Time: time.Unix(0, 0)},
		{Instrument: "BTC", Time: time.Unix(1, 0)},
		{Instrument: "BTC", Time: time.Unix(2, 0)},
		{Instrument: "ETH", Time: time.Unix(3, 0)},
	}
	m := Aggregate(events, nil)
	assert.Equal(t, "ETH", m.MostTradedAsset, "ties resolve to the earliest-seen instrument")
}

func TestAggregate_RandomEventsNeverPanic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	instruments := []string{"BTC", "ETH", "SOL", "DOGE"}
	events := make([]Event, 0, 200)
	for i := 0; i < 200; i++ {
		side := SideBuy
		if rng.Intn(2) == 1 {
			side = SideSell
		}
		events = append(events, Event{
			Instrument: instruments[rng.Intn(len(instruments))],
			Side:       side,
			Price:      rng.Float64() * 1000,
			Size:       rng.Float64() * 10,
			Time:       time.Unix(int64(i*60), 0),
			Status:     StatusFilled,
		})
	}

	trades := ReconstructTrades(events)
	m := Aggregate(events, trades)
	assert.Equal(t, 200, m.TotalOrders)
	if m.Performance != nil {
		assert.GreaterOrEqual(t, m.Performance.WinRate, 0.0)
		assert.LessOrEqual(t, m.Performance.WinRate, 1.0)
		assert.GreaterOrEqual(t, m.Performance.MaxDrawdown, 0.0)
	}
}
