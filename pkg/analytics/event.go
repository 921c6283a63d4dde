package analytics

import "time"

// Side is the canonical direction of an order or fill. Exchange side codes
// that cannot be mapped are carried through verbatim so raw activity counts
// stay accurate; the ledger ignores them.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Recognized reports whether the side participates in position tracking.
func (s Side) Recognized() bool {
	return s == SideBuy || s == SideSell
}

// Opposes reports whether two recognized sides offset each other.
func (s Side) Opposes(other Side) bool {
	return (s == SideBuy && other == SideSell) || (s == SideSell && other == SideBuy)
}

// Direction is the exposure direction implied by an entry side: buying opens
// or extends a long, selling a short.
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// Direction maps a recognized side to its exposure direction. Unrecognized
// sides yield an empty direction.
func (s Side) Direction() Direction {
	switch s {
	case SideBuy:
		return DirectionLong
	case SideSell:
		return DirectionShort
	default:
		return ""
	}
}

// StatusFilled marks events that represent executed volume. Every other
// status (open, canceled, rejected, ...) is kept only for activity metrics.
const StatusFilled = "filled"

// Event is one normalized order/fill record. Numeric fields that failed to
// parse upstream arrive as zero; the pipeline never rejects a single record.
type Event struct {
	Instrument string
	Side       Side
	Price      float64
	Size       float64
	Time       time.Time
	Status     string
	OrderType  string
	TIF        string
}

// Filled reports whether the event contributes executed volume.
func (e Event) Filled() bool {
	return e.Status == StatusFilled
}

// RealizedTrade is one fully or partially offset position, produced by the
// ledger when an incoming fill opposes the open position on its instrument.
type RealizedTrade struct {
	Instrument string
	EntryPrice float64
	ExitPrice  float64
	Size       float64
	PnL        float64
	EntrySide  Side
}
