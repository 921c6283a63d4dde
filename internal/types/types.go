// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type (
	AnalyzeTraderReq struct {
		Address string `path:"address"`
		Insight bool   `form:"insight,optional"`
		Refresh bool   `form:"refresh,optional"`
	}

	// Report and Insight hold sanitized JSON shapes: the analytics core keeps
	// NaN/Inf figures, which are mapped to null at this boundary.
	AnalyzeTraderResp struct {
		Report  any  `json:"report"`
		Insight any  `json:"insight,omitempty"`
		Cached  bool `json:"cached"`
	}

	TraderHistoryReq struct {
		Address string `path:"address"`
		Limit   int    `form:"limit,optional"`
	}

	TraderHistoryResp struct {
		Address string `json:"address"`
		Entries any    `json:"entries"`
		Count   int    `json:"count"`
	}

	TopTradersReq struct {
		Limit          int     `form:"limit,optional"`
		MinDailyVolume float64 `form:"minDailyVolume,optional"`
		MinDailyPnl    float64 `form:"minDailyPnl,optional"`
		MinDailyRoi    float64 `form:"minDailyRoi,optional"`
	}

	TopTrader struct {
		Address      string  `json:"address"`
		DisplayName  string  `json:"display_name"`
		AccountValue float64 `json:"account_value"`
		DailyPnl     float64 `json:"daily_pnl"`
		DailyRoi     float64 `json:"daily_roi"`
		DailyVolume  float64 `json:"daily_volume"`
	}

	TopTradersResp struct {
		Traders []TopTrader `json:"traders"`
		Count   int         `json:"count"`
	}

	RatedTradersReq struct {
		Limit int `form:"limit,optional"`
	}

	RatedTrader struct {
		Address      string   `json:"address"`
		OverallScore float64  `json:"overall_score"`
		StyleTags    []string `json:"style_tags,omitempty"`
		AnalyzedAt   int64    `json:"analyzed_at"`
	}

	RatedTradersResp struct {
		Traders []RatedTrader `json:"traders"`
		Count   int           `json:"count"`
	}

	HealthResp struct {
		Status string `json:"status"`
		Env    string `json:"env"`
	}
)
