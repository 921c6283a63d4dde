package analytics

// position is the open exposure on one instrument. Size is strictly positive
// while the position exists; a fully offset position is removed from the map
// rather than kept at zero.
type position struct {
	side     Side
	size     float64
	avgEntry float64
}

// Ledger replays filled events per instrument in timestamp order and realizes
// PnL whenever an incoming fill opposes the open position.
//
// Matching is FIFO at the position level: an offsetting fill realizes
// min(incoming size, position size) against the weighted-average entry price.
// A fill that more than closes the position does not open a reversed
// position; the leftover size is dropped.
type Ledger struct {
	positions map[string]*position
	trades    []RealizedTrade
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]*position)}
}

// Replay processes the events in order and returns the realized trades.
// Events must already be sorted by timestamp; only filled events with a
// recognized side participate.
func (l *Ledger) Replay(events []Event) []RealizedTrade {
	for _, ev := range events {
		l.Apply(ev)
	}
	return l.trades
}

// Apply advances the ledger by one event.
func (l *Ledger) Apply(ev Event) {
	if !ev.Filled() || !ev.Side.Recognized() || ev.Size == 0 {
		return
	}

	pos, ok := l.positions[ev.Instrument]
	if !ok {
		l.positions[ev.Instrument] = &position{
			side:     ev.Side,
			size:     ev.Size,
			avgEntry: ev.Price,
		}
		return
	}

	if !ev.Side.Opposes(pos.side) {
		// Same direction: grow the position and re-weight the entry price.
		total := pos.size + ev.Size
		pos.avgEntry = (pos.avgEntry*pos.size + ev.Price*ev.Size) / total
		pos.size = total
		return
	}

	// Opposite direction: realize PnL on the offset quantity.
	closeSize := ev.Size
	if pos.size < closeSize {
		closeSize = pos.size
	}
	pnl := (ev.Price - pos.avgEntry) * closeSize
	if pos.side == SideSell {
		pnl = (pos.avgEntry - ev.Price) * closeSize
	}
	l.trades = append(l.trades, RealizedTrade{
		Instrument: ev.Instrument,
		EntryPrice: pos.avgEntry,
		ExitPrice:  ev.Price,
		Size:       closeSize,
		PnL:        pnl,
		EntrySide:  pos.side,
	})

	if ev.Size >= pos.size {
		delete(l.positions, ev.Instrument)
		return
	}
	pos.size -= ev.Size
}

// OpenPositions returns a snapshot of positions still open after replay,
// keyed by instrument.
func (l *Ledger) OpenPositions() map[string]Position {
	out := make(map[string]Position, len(l.positions))
	for instrument, pos := range l.positions {
		out[instrument] = Position{
			Instrument:    instrument,
			Direction:     pos.side.Direction(),
			Size:          pos.size,
			AvgEntryPrice: pos.avgEntry,
		}
	}
	return out
}

// Position is an externally visible snapshot of one open position.
type Position struct {
	Instrument    string    `json:"instrument"`
	Direction     Direction `json:"direction"`
	Size          float64   `json:"size"`
	AvgEntryPrice float64   `json:"avg_entry_price"`
}

// ReconstructTrades is the one-shot form of replaying a ledger.
func ReconstructTrades(events []Event) []RealizedTrade {
	return NewLedger().Replay(events)
}
