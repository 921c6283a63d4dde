package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"traderep-api/pkg/hyperliquid"
)

// NormalizeOrders converts raw historical order records into canonical events
// sorted ascending by timestamp. The sort is stable so records sharing a
// timestamp keep their original feed order.
//
// Normalization is deliberately permissive: a numeric field that fails to
// parse becomes zero and the event is still emitted, and an unrecognized side
// code is carried through so the event still counts toward raw activity.
func NormalizeOrders(records []hyperliquid.OrderRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		events = append(events, Event{
			Instrument: rec.Order.Coin,
			Side:       normalizeSide(rec.Order.Side),
			Price:      parseDecimal(rec.Order.LimitPx),
			Size:       parseDecimal(rec.Order.Sz),
			Time:       time.UnixMilli(rec.Order.Timestamp).UTC(),
			Status:     strings.ToLower(strings.TrimSpace(rec.Status)),
			OrderType:  rec.Order.OrderType,
			TIF:        rec.Order.Tif,
		})
	}
	sortEvents(events)
	return events
}

// NormalizeFills converts user fills into canonical events. Fills are
// executions by definition, so every event is marked filled.
func NormalizeFills(fills []hyperliquid.Fill) []Event {
	events := make([]Event, 0, len(fills))
	for _, fill := range fills {
		events = append(events, Event{
			Instrument: fill.Coin,
			Side:       normalizeSide(fill.Side),
			Price:      parseDecimal(fill.Px),
			Size:       parseDecimal(fill.Sz),
			Time:       time.UnixMilli(fill.Time).UTC(),
			Status:     StatusFilled,
		})
	}
	sortEvents(events)
	return events
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
}

// normalizeSide maps Hyperliquid book side codes onto canonical sides.
// "b"/"bid" is a buy, "a"/"ask" a sell. Anything else passes through.
func normalizeSide(raw string) Side {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "b", "bid", "buy":
		return SideBuy
	case "a", "ask", "sell":
		return SideSell
	default:
		return Side(raw)
	}
}

// parseDecimal parses an exchange decimal string, defaulting to zero on any
// malformed value. A single bad field never rejects the record.
func parseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
