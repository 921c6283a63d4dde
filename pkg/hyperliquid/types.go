package hyperliquid

import (
	"encoding/json"
	"fmt"
)

// InfoRequest is the POST body accepted by the Hyperliquid info endpoint.
type InfoRequest struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
}

// Order is the inner order object of a historical order record. Prices and
// sizes arrive as decimal strings.
type Order struct {
	Coin       string `json:"coin"`
	Side       string `json:"side"` // book side code: "B" bid / "A" ask
	LimitPx    string `json:"limitPx"`
	Sz         string `json:"sz"`
	OrigSz     string `json:"origSz"`
	Oid        int64  `json:"oid"`
	Timestamp  int64  `json:"timestamp"` // ms
	OrderType  string `json:"orderType"`
	Tif        string `json:"tif"`
	ReduceOnly bool   `json:"reduceOnly,omitempty"`
}

// OrderRecord pairs an order with its lifecycle status.
type OrderRecord struct {
	Order           Order  `json:"order"`
	Status          string `json:"status"`
	StatusTimestamp int64  `json:"statusTimestamp"`
}

// Fill is one entry from the userFills endpoint.
type Fill struct {
	Coin          string `json:"coin"`
	Px            string `json:"px"`
	Sz            string `json:"sz"`
	Side          string `json:"side"`
	Time          int64  `json:"time"` // ms
	StartPosition string `json:"startPosition"`
	Dir           string `json:"dir"`
	ClosedPnl     string `json:"closedPnl"`
	Hash          string `json:"hash"`
	Oid           int64  `json:"oid"`
	Crossed       bool   `json:"crossed"`
	Fee           string `json:"fee"`
	Tid           int64  `json:"tid"`
}

// Leverage describes the leverage setting on an open position.
type Leverage struct {
	Type  string  `json:"type"` // cross | isolated
	Value float64 `json:"value"`
}

// PositionDetail is the position object inside clearinghouseState.
type PositionDetail struct {
	Coin     string   `json:"coin"`
	Szi      string   `json:"szi"`
	EntryPx  string   `json:"entryPx"`
	Leverage Leverage `json:"leverage"`
}

// AssetPosition wraps a position entry in the user state payload.
type AssetPosition struct {
	Type     string         `json:"type"`
	Position PositionDetail `json:"position"`
}

// UserState is the subset of clearinghouseState the analyzer consumes.
type UserState struct {
	AssetPositions []AssetPosition `json:"assetPositions"`
}

// WindowPerformance holds pnl/roi/volume figures for one leaderboard window.
// All values are decimal strings on the wire.
type WindowPerformance struct {
	Pnl string `json:"pnl"`
	Roi string `json:"roi"`
	Vlm string `json:"vlm"`
}

// WindowPerformances maps window name (day, week, month, allTime) to its
// figures. The wire format is a list of [name, object] pairs.
type WindowPerformances map[string]WindowPerformance

// UnmarshalJSON decodes the pair-list representation.
func (w *WindowPerformances) UnmarshalJSON(data []byte) error {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("window performances: %w", err)
	}
	out := make(WindowPerformances, len(pairs))
	for _, pair := range pairs {
		var name string
		if err := json.Unmarshal(pair[0], &name); err != nil {
			return fmt.Errorf("window performance name: %w", err)
		}
		var perf WindowPerformance
		if err := json.Unmarshal(pair[1], &perf); err != nil {
			return fmt.Errorf("window performance %s: %w", name, err)
		}
		out[name] = perf
	}
	*w = out
	return nil
}

// LeaderboardRow is one trader entry from the stats leaderboard.
type LeaderboardRow struct {
	EthAddress         string             `json:"ethAddress"`
	AccountValue       string             `json:"accountValue"`
	DisplayName        string             `json:"displayName"`
	WindowPerformances WindowPerformances `json:"windowPerformances"`
}

type leaderboardResponse struct {
	LeaderboardRows []LeaderboardRow `json:"leaderboardRows"`
}
