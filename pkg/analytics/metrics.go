package analytics

import (
	"math"
	"sort"
	"time"
)

// Metrics summarizes a trader's activity and realized performance. The
// Performance block is present only when at least one trade was realized,
// so an inactive trader serializes without misleading zero figures.
type Metrics struct {
	FirstActivity     time.Time `json:"first_activity,omitempty"`
	LastActivity      time.Time `json:"last_activity,omitempty"`
	ActiveDays        int       `json:"active_days,omitempty"`
	TotalOrders       int       `json:"total_orders,omitempty"`
	ActivityFrequency float64   `json:"activity_frequency,omitempty"`

	HourlyDistribution map[int]int    `json:"hourly_distribution,omitempty"`
	DailyDistribution  map[string]int `json:"daily_distribution,omitempty"`
	PeakActivityHour   int            `json:"peak_activity_hour"`

	TotalBuyVolume  float64 `json:"total_buy_volume"`
	TotalSellVolume float64 `json:"total_sell_volume"`
	PositionBias    string  `json:"position_bias,omitempty"`
	LongShortRatio  float64 `json:"long_short_ratio,omitempty"`
	BuyPercentage   float64 `json:"buy_percentage,omitempty"`
	SellPercentage  float64 `json:"sell_percentage,omitempty"`

	AssetDistribution  map[string]int `json:"asset_distribution,omitempty"`
	MostTradedAsset    string         `json:"most_traded_asset,omitempty"`
	AssetCount         int            `json:"asset_count,omitempty"`
	AssetConcentration float64        `json:"asset_concentration,omitempty"`
	Diversification    string         `json:"diversification,omitempty"`

	OrderTypeDistribution map[string]int `json:"order_type_distribution,omitempty"`
	MostCommonOrderType   string         `json:"most_common_order_type,omitempty"`
	TifDistribution       map[string]int `json:"time_in_force_distribution,omitempty"`
	MostCommonTif         string         `json:"most_common_tif,omitempty"`

	Performance *Performance `json:"performance,omitempty"`
}

// Performance carries figures derived from the realized trade stream.
// AvgWin/AvgLoss are NaN when there are no winning/losing trades, and
// RiskReward is +Inf when the average loss is zero or undefined; callers
// serializing to JSON must map non-finite values at their own boundary.
type Performance struct {
	TotalTrades     int     `json:"total_trades"`
	TotalPnl        float64 `json:"total_pnl"`
	WinRate         float64 `json:"win_rate"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	AvgPositionSize float64 `json:"avg_position_size"`
	MaxPositionSize float64 `json:"max_position_size"`
}

// Aggregate computes metrics over the full normalized event sequence and the
// ledger's realized trades. Events must be sorted ascending by timestamp.
// An empty event sequence yields the zero Metrics value.
func Aggregate(events []Event, trades []RealizedTrade) Metrics {
	var m Metrics
	if len(events) == 0 {
		return m
	}

	m.FirstActivity = events[0].Time
	m.LastActivity = events[len(events)-1].Time
	m.ActiveDays = activeDaySpan(m.FirstActivity, m.LastActivity)
	m.TotalOrders = len(events)
	if m.ActiveDays > 0 {
		m.ActivityFrequency = float64(m.TotalOrders) / float64(m.ActiveDays)
	}

	m.HourlyDistribution = make(map[int]int)
	m.DailyDistribution = make(map[string]int)
	for _, ev := range events {
		m.HourlyDistribution[ev.Time.Hour()]++
		m.DailyDistribution[ev.Time.Weekday().String()]++
	}
	m.PeakActivityHour = peakHour(m.HourlyDistribution)

	aggregateVolumeBias(&m, events)
	aggregateAssetDiversity(&m, events)
	aggregateOrderShape(&m, events)

	if len(trades) > 0 {
		m.Performance = aggregatePerformance(trades)
	}
	return m
}

// activeDaySpan counts calendar days covered by the activity window,
// inclusive of both endpoints.
func activeDaySpan(first, last time.Time) int {
	if last.Before(first) {
		return 0
	}
	return int(math.Ceil(last.Sub(first).Hours()/24)) + 1
}

// peakHour returns the busiest hour; ties resolve to the earliest hour.
func peakHour(hist map[int]int) int {
	peak, best := 0, -1
	for hour := 0; hour < 24; hour++ {
		if count, ok := hist[hour]; ok && count > best {
			peak, best = hour, count
		}
	}
	return peak
}

const biasThreshold = 1.1 // 10% dominance before calling a direction bias

func aggregateVolumeBias(m *Metrics, events []Event) {
	for _, ev := range events {
		switch ev.Side {
		case SideBuy:
			m.TotalBuyVolume += ev.Size
		case SideSell:
			m.TotalSellVolume += ev.Size
		}
	}

	switch {
	case m.TotalBuyVolume > m.TotalSellVolume*biasThreshold:
		m.PositionBias = string(DirectionLong)
	case m.TotalSellVolume > m.TotalBuyVolume*biasThreshold:
		m.PositionBias = string(DirectionShort)
	default:
		m.PositionBias = "Neutral"
	}

	total := m.TotalBuyVolume + m.TotalSellVolume
	if total > 0 {
		if m.TotalSellVolume > 0 {
			m.LongShortRatio = m.TotalBuyVolume / m.TotalSellVolume
		} else {
			m.LongShortRatio = math.Inf(1)
		}
		m.BuyPercentage = m.TotalBuyVolume / total * 100
		m.SellPercentage = m.TotalSellVolume / total * 100
	}
}

func aggregateAssetDiversity(m *Metrics, events []Event) {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, ev := range events {
		if _, ok := counts[ev.Instrument]; !ok {
			firstSeen[ev.Instrument] = i
		}
		counts[ev.Instrument]++
	}

	m.AssetDistribution = counts
	m.AssetCount = len(counts)
	m.MostTradedAsset = topKey(counts, firstSeen)

	total := float64(len(events))
	concentration := 0.0
	for _, count := range counts {
		share := float64(count) / total
		concentration += share * share
	}
	m.AssetConcentration = concentration
	switch {
	case concentration > 0.5:
		m.Diversification = "Low"
	case concentration > 0.3:
		m.Diversification = "Moderate"
	default:
		m.Diversification = "High"
	}
}

func aggregateOrderShape(m *Metrics, events []Event) {
	orderTypes := make(map[string]int)
	tifs := make(map[string]int)
	typeSeen := make(map[string]int)
	tifSeen := make(map[string]int)
	for i, ev := range events {
		if ev.OrderType != "" {
			if _, ok := orderTypes[ev.OrderType]; !ok {
				typeSeen[ev.OrderType] = i
			}
			orderTypes[ev.OrderType]++
		}
		if ev.TIF != "" {
			if _, ok := tifs[ev.TIF]; !ok {
				tifSeen[ev.TIF] = i
			}
			tifs[ev.TIF]++
		}
	}
	if len(orderTypes) > 0 {
		m.OrderTypeDistribution = orderTypes
		m.MostCommonOrderType = topKey(orderTypes, typeSeen)
	}
	if len(tifs) > 0 {
		m.TifDistribution = tifs
		m.MostCommonTif = topKey(tifs, tifSeen)
	}
}

// MergeOrderShape fills the order type and time-in-force distributions from a
// separate order event stream. Fill events carry no order type or TIF, so
// callers analyzing a fill stream merge the shape from the order history.
// Existing distributions are replaced only when the order stream has data.
func MergeOrderShape(m *Metrics, orders []Event) {
	if len(orders) == 0 {
		return
	}
	aggregateOrderShape(m, orders)
}

// topKey picks the key with the highest count; ties resolve to the key seen
// earliest in the event stream.
func topKey(counts map[string]int, firstSeen map[string]int) string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return firstSeen[keys[i]] < firstSeen[keys[j]]
	})
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func aggregatePerformance(trades []RealizedTrade) *Performance {
	perf := &Performance{TotalTrades: len(trades)}

	var winSum, lossSum, sizeSum float64
	var wins, losses int
	for _, trade := range trades {
		perf.TotalPnl += trade.PnL
		sizeSum += trade.Size
		if trade.Size > perf.MaxPositionSize {
			perf.MaxPositionSize = trade.Size
		}
		if trade.PnL > 0 {
			winSum += trade.PnL
			wins++
		} else if trade.PnL < 0 {
			lossSum += trade.PnL
			losses++
		}
	}
	perf.WinRate = float64(wins) / float64(len(trades))
	perf.AvgPositionSize = sizeSum / float64(len(trades))
	perf.AvgWin = winSum / float64(wins)               // NaN when no wins
	perf.AvgLoss = math.Abs(lossSum / float64(losses)) // NaN when no losses

	if perf.AvgLoss > 0 {
		perf.RiskRewardRatio = perf.AvgWin / perf.AvgLoss
	} else {
		// Zero or undefined average loss: nothing to divide by.
		perf.RiskRewardRatio = math.Inf(1)
	}

	perf.MaxDrawdown = maxDrawdown(trades)
	return perf
}

// maxDrawdown measures the deepest dip of cumulative realized PnL below its
// running maximum, as a fraction of that maximum. A zero running maximum
// contributes nothing rather than dividing by zero.
func maxDrawdown(trades []RealizedTrade) float64 {
	var cumulative, runningMax, worst float64
	runningMax = math.Inf(-1)
	for _, trade := range trades {
		cumulative += trade.PnL
		if cumulative > runningMax {
			runningMax = cumulative
		}
		if runningMax == 0 {
			continue
		}
		dd := (cumulative - runningMax) / runningMax
		if dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}
