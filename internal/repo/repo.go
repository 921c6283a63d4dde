package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/zeromicro/go-zero/core/logx"

	"traderep-api/internal/model"
	"traderep-api/pkg/analytics"
	"traderep-api/pkg/hyperliquid"
	"traderep-api/pkg/insight"
)

// ErrNotFound mirrors model.ErrNotFound for callers that never touch the
// model package directly.
var ErrNotFound = model.ErrNotFound

// StoredAnalysis is a persisted analysis joined back into domain types.
type StoredAnalysis struct {
	ID        int64             `json:"id"`
	Address   string            `json:"address"`
	Report    *analytics.Report `json:"report"`
	Insight   *insight.Insights `json:"insight,omitempty"`
	StyleTags []string          `json:"style_tags,omitempty"`
	CreatedAt int64             `json:"created_at"`
}

// RatedTrader pairs an address with its latest overall score.
type RatedTrader struct {
	Address      string   `json:"address"`
	OverallScore float64  `json:"overall_score"`
	StyleTags    []string `json:"style_tags,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

// AnalysisRepo persists finished trader reports and leaderboard snapshots.
// A nil receiver is valid and turns every call into a no-op so the service
// runs without Postgres configured.
type AnalysisRepo struct {
	traders  model.TradersModel
	analyses model.TraderAnalysesModel
}

func NewAnalysisRepo(traders model.TradersModel, analyses model.TraderAnalysesModel) *AnalysisRepo {
	return &AnalysisRepo{traders: traders, analyses: analyses}
}

// SaveReport stores a finished report (and its optional insight) as a new
// analysis row.
func (r *AnalysisRepo) SaveReport(ctx context.Context, report *analytics.Report, ins *insight.Insights) error {
	if r == nil || r.analyses == nil {
		return nil
	}
	if report == nil {
		return fmt.Errorf("save report: nil report")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report for %s: %w", report.Address, err)
	}

	row := &model.TraderAnalyses{
		Address:          strings.ToLower(report.Address),
		OverallScore:     float64(report.Reputation.Overall),
		ExperienceScore:  float64(report.Reputation.Experience),
		ConsistencyScore: float64(report.Reputation.Consistency),
		RiskScore:        float64(report.Reputation.RiskManagement),
		PerformanceScore: float64(report.Reputation.Performance),
		StyleTags:        pq.StringArray(styleTags(report)),
		Report:           payload,
		CreatedAt:        report.GeneratedAt.UnixMilli(),
	}
	if ins != nil {
		encoded, err := json.Marshal(ins)
		if err != nil {
			return fmt.Errorf("encode insight for %s: %w", report.Address, err)
		}
		row.Insight = sql.NullString{String: string(encoded), Valid: true}
	}

	id, err := r.analyses.Insert(ctx, row)
	if err != nil {
		return err
	}
	logx.WithContext(ctx).Infof("stored analysis id=%d address=%s overall=%.1f", id, row.Address, row.OverallScore)
	return nil
}

// Latest returns the newest stored analysis for the address.
func (r *AnalysisRepo) Latest(ctx context.Context, address string) (*StoredAnalysis, error) {
	if r == nil || r.analyses == nil {
		return nil, ErrNotFound
	}
	row, err := r.analyses.LatestByAddress(ctx, strings.ToLower(address))
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(row)
}

// History returns past analyses for the address, newest first.
func (r *AnalysisRepo) History(ctx context.Context, address string, limit int) ([]StoredAnalysis, error) {
	if r == nil || r.analyses == nil {
		return nil, nil
	}
	rows, err := r.analyses.RecentByAddress(ctx, strings.ToLower(address), limit)
	if err != nil {
		return nil, err
	}
	out := make([]StoredAnalysis, 0, len(rows))
	for i := range rows {
		decoded, err := decodeAnalysis(&rows[i])
		if err != nil {
			logx.WithContext(ctx).Errorf("skip corrupt analysis id=%d: %v", rows[i].Id, err)
			continue
		}
		out = append(out, *decoded)
	}
	return out, nil
}

// TopRated ranks addresses by their latest overall score.
func (r *AnalysisRepo) TopRated(ctx context.Context, limit int) ([]RatedTrader, error) {
	if r == nil || r.analyses == nil {
		return nil, nil
	}
	rows, err := r.analyses.TopByOverallScore(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RatedTrader, 0, len(rows))
	for i := range rows {
		out = append(out, RatedTrader{
			Address:      rows[i].Address,
			OverallScore: rows[i].OverallScore,
			StyleTags:    []string(rows[i].StyleTags),
			CreatedAt:    rows[i].CreatedAt,
		})
	}
	return out, nil
}

// RecordTrader refreshes the traders table from a leaderboard entry.
func (r *AnalysisRepo) RecordTrader(ctx context.Context, trader hyperliquid.TopTrader) error {
	if r == nil || r.traders == nil {
		return nil
	}
	now := time.Now().UnixMilli()
	return r.traders.Upsert(ctx, &model.Traders{
		Address:      strings.ToLower(trader.Address),
		DisplayName:  sql.NullString{String: trader.DisplayName, Valid: trader.DisplayName != ""},
		AccountValue: sql.NullFloat64{Float64: trader.AccountValue, Valid: true},
		DailyPnl:     sql.NullFloat64{Float64: trader.DailyPnl, Valid: true},
		DailyRoi:     sql.NullFloat64{Float64: trader.DailyRoi, Valid: true},
		DailyVolume:  sql.NullFloat64{Float64: trader.DailyVolume, Valid: true},
		FirstSeenAt:  now,
		UpdatedAt:    now,
	})
}

func decodeAnalysis(row *model.TraderAnalyses) (*StoredAnalysis, error) {
	stored := &StoredAnalysis{
		ID:        row.Id,
		Address:   row.Address,
		StyleTags: []string(row.StyleTags),
		CreatedAt: row.CreatedAt,
	}
	if len(row.Report) > 0 {
		var report analytics.Report
		if err := json.Unmarshal(row.Report, &report); err != nil {
			return nil, fmt.Errorf("decode report id=%d: %w", row.Id, err)
		}
		stored.Report = &report
	}
	if row.Insight.Valid && row.Insight.String != "" {
		var ins insight.Insights
		if err := json.Unmarshal([]byte(row.Insight.String), &ins); err != nil {
			return nil, fmt.Errorf("decode insight id=%d: %w", row.Id, err)
		}
		stored.Insight = &ins
	}
	return stored, nil
}

// styleTags flattens the style classification into queryable labels.
func styleTags(report *analytics.Report) []string {
	tags := make([]string, 0, 3)
	if v := report.Style.PrimaryStyle; v != "" {
		tags = append(tags, "style:"+v)
	}
	if v := report.Style.SizingApproach; v != "" {
		tags = append(tags, "sizing:"+v)
	}
	if v := report.Style.RiskProfile; v != "" {
		tags = append(tags, "risk:"+v)
	}
	return tags
}
