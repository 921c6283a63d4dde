package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillAt(instrument string, side Side, price, size float64, minute int) Event {
	return Event{
		Instrument: instrument,
		Side:       side,
		Price:      price,
		Size:       size,
		Time:       time.Date(2024, 5, 1, 12, minute, 0, 0, time.UTC),
		Status:     StatusFilled,
	}
}

func TestLedger_OpenThenFullClose(t *testing.T) {
	ledger := NewLedger()
	trades := ledger.Replay([]Event{
		fillAt("BTC", SideBuy, 100, 2, 0),
		fillAt("BTC", SideSell, 110, 2, 1),
	})

	require.Len(t, trades, 1)
	trade := trades[0]
	assert.Equal(t, "BTC", trade.Instrument)
	assert.Equal(t, 100.0, trade.EntryPrice)
	assert.Equal(t, 110.0, trade.ExitPrice)
	assert.Equal(t, 2.0, trade.Size)
	assert.Equal(t, 20.0, trade.PnL)
	assert.Equal(t, SideBuy, trade.EntrySide)
	assert.Empty(t, ledger.OpenPositions(), "full offset must leave flat state")
}

func TestLedger_ShortPnL(t *testing.T) {
	trades := ReconstructTrades([]Event{
		fillAt("ETH", SideSell, 200, 3, 0),
		fillAt("ETH", SideBuy, 180, 3, 1),
	})

	require.Len(t, trades, 1)
	assert.Equal(t, 60.0, trades[0].PnL, "short profits when price falls")
	assert.Equal(t, SideSell, trades[0].EntrySide)
}

func TestLedger_PartialOffsetKeepsEntryPrice(t *testing.T) {
	ledger := NewLedger()
	trades := ledger.Replay([]Event{
		fillAt("BTC", SideBuy, 100, 5, 0),
		fillAt("BTC", SideSell, 120, 2, 1),
	})

	require.Len(t, trades, 1)
	assert.Equal(t, 2.0, trades[0].Size)
	assert.Equal(t, 40.0, trades[0].PnL)

	open := ledger.OpenPositions()
	require.Contains(t, open, "BTC")
	pos := open["BTC"]
	assert.Equal(t, DirectionLong, pos.Direction)
	assert.Equal(t, 3.0, pos.Size, "size reduced by offset quantity")
	assert.Equal(t, 100.0, pos.AvgEntryPrice, "entry price unchanged on reduce")
}

func TestLedger_SameSideWeightedAverage(t *testing.T) {
	ledger := NewLedger()
	trades := ledger.Replay([]Event{
		fillAt("BTC", SideBuy, 100, 5, 0),
		fillAt("BTC", SideBuy, 120, 5, 1),
	})

	assert.Empty(t, trades, "same-side additions realize nothing")
	pos := ledger.OpenPositions()["BTC"]
	assert.Equal(t, 110.0, pos.AvgEntryPrice)
	assert.Equal(t, 10.0, pos.Size)
}

func TestLedger_WeightedAverageMatchesAnalyticMean(t *testing.T) {
	prices := []float64{100, 105, 95, 130, 112.5}
	sizes := []float64{1, 2, 0.5, 3, 1.25}

	ledger := NewLedger()
	events := make([]Event, 0, len(prices))
	var weighted, total float64
	for i := range prices {
		events = append(events, fillAt("SOL", SideBuy, prices[i], sizes[i], i))
		weighted += prices[i] * sizes[i]
		total += sizes[i]
	}
	ledger.Replay(events)

	pos := ledger.OpenPositions()["SOL"]
	assert.InDelta(t, weighted/total, pos.AvgEntryPrice, 1e-12)
	assert.InDelta(t, total, pos.Size, 1e-12)
}

func TestLedger_OversizedCloseDropsRemainder(t *testing.T) {
	ledger := NewLedger()
	trades := ledger.Replay([]Event{
		fillAt("BTC", SideBuy, 100, 2, 0),
		fillAt("BTC", SideSell, 110, 5, 1),
	})

	require.Len(t, trades, 1)
	assert.Equal(t, 2.0, trades[0].Size, "only the open size is realized")
	assert.Empty(t, ledger.OpenPositions(), "no reversed position is opened")
}

func TestLedger_SkipsNonParticipants(t *testing.T) {
	events := []Event{
		{Instrument: "BTC", Side: SideBuy, Price: 100, Size: 1,
			Time: time.Unix(0, 0), Status: "canceled"},
		fillAt("BTC", SideBuy, 100, 0, 1), // zero size
		{Instrument: "BTC", Side: Side("x"), Price: 100, Size: 1,
			Time: time.Unix(120, 0), Status: StatusFilled}, // unmapped side
	}

	ledger := NewLedger()
	trades := ledger.Replay(events)
	assert.Empty(t, trades)
	assert.Empty(t, ledger.OpenPositions(), "none of the events may open a position")
}

func TestLedger_InstrumentsAreIndependent(t *testing.T) {
	ledger := NewLedger()
	trades := ledger.Replay([]Event{
		fillAt("BTC", SideBuy, 100, 1, 0),
		fillAt("ETH", SideSell, 50, 2, 1),
		fillAt("BTC", SideSell, 101, 1, 2),
	})

	require.Len(t, trades, 1)
	assert.Equal(t, "BTC", trades[0].Instrument)

	open := ledger.OpenPositions()
	require.Len(t, open, 1)
	assert.Equal(t, DirectionShort, open["ETH"].Direction)
}
