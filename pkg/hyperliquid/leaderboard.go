package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
)

// TopTrader is a leaderboard row flattened to numeric fields.
type TopTrader struct {
	Address      string  `json:"address"`
	DisplayName  string  `json:"display_name"`
	AccountValue float64 `json:"account_value"`
	DailyPnl     float64 `json:"daily_pnl"`
	DailyRoi     float64 `json:"daily_roi"`
	DailyVolume  float64 `json:"daily_volume"`
	WeeklyPnl    float64 `json:"weekly_pnl"`
	MonthlyPnl   float64 `json:"monthly_pnl"`
	AllTimePnl   float64 `json:"all_time_pnl"`
}

// TopTradersFilter narrows the leaderboard result set. Zero values leave the
// corresponding dimension unfiltered.
type TopTradersFilter struct {
	Limit          int
	MinDailyVolume float64
	MinDailyPnl    float64
	MinDailyRoi    float64
}

const defaultTopTradersLimit = 10

// TopTraders fetches the leaderboard, applies the filter, and returns up to
// Limit traders ordered by account value descending.
func (c *Client) TopTraders(ctx context.Context, filter TopTradersFilter) ([]TopTrader, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.leaderboardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("hyperliquid: build leaderboard request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("hyperliquid: leaderboard request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hyperliquid: read leaderboard response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hyperliquid: leaderboard http status %d: %s", resp.StatusCode, string(body))
	}

	var payload leaderboardResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("hyperliquid: decode leaderboard response: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTopTradersLimit
	}
	minPnl := filter.MinDailyPnl
	if minPnl == 0 {
		minPnl = math.Inf(-1)
	}
	minRoi := filter.MinDailyRoi
	if minRoi == 0 {
		minRoi = math.Inf(-1)
	}

	traders := make([]TopTrader, 0, len(payload.LeaderboardRows))
	for _, row := range payload.LeaderboardRows {
		day := row.WindowPerformances["day"]
		trader := TopTrader{
			Address:      row.EthAddress,
			DisplayName:  row.DisplayName,
			AccountValue: parseDecimal(row.AccountValue),
			DailyPnl:     parseDecimal(day.Pnl),
			DailyRoi:     parseDecimal(day.Roi),
			DailyVolume:  parseDecimal(day.Vlm),
			WeeklyPnl:    parseDecimal(row.WindowPerformances["week"].Pnl),
			MonthlyPnl:   parseDecimal(row.WindowPerformances["month"].Pnl),
			AllTimePnl:   parseDecimal(row.WindowPerformances["allTime"].Pnl),
		}
		if trader.DisplayName == "" {
			trader.DisplayName = "Unknown"
		}
		if trader.DailyVolume < filter.MinDailyVolume {
			continue
		}
		if trader.DailyPnl < minPnl || trader.DailyRoi < minRoi {
			continue
		}
		traders = append(traders, trader)
	}

	sort.SliceStable(traders, func(i, j int) bool {
		return traders[i].AccountValue > traders[j].AccountValue
	})
	if len(traders) > limit {
		traders = traders[:limit]
	}
	return traders, nil
}

// parseDecimal converts an API decimal string, tolerating blanks and
// malformed values as zero.
func parseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
