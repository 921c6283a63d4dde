package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlc"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ TraderAnalysesModel = (*customTraderAnalysesModel)(nil)

const traderAnalysesRows = "id, address, overall_score, experience_score, consistency_score, risk_score, performance_score, style_tags, report, insight, created_at"

const cacheTraderAnalysesLatestPrefix = "cache:traderep:trader_analyses:latest:"

// TraderAnalyses maps a row of the public.trader_analyses table. The full
// report and the optional LLM insight are stored as jsonb; style tags land in
// a text[] column so they stay queryable.
type TraderAnalyses struct {
	Id               int64           `db:"id"`
	Address          string          `db:"address"`
	OverallScore     float64         `db:"overall_score"`
	ExperienceScore  float64         `db:"experience_score"`
	ConsistencyScore float64         `db:"consistency_score"`
	RiskScore        float64         `db:"risk_score"`
	PerformanceScore float64         `db:"performance_score"`
	StyleTags        pq.StringArray  `db:"style_tags"`
	Report           []byte          `db:"report"`
	Insight          sql.NullString  `db:"insight"`
	CreatedAt        int64           `db:"created_at"`
}

type (
	// TraderAnalysesModel is an interface to be customized, add more methods
	// here, and implement the added methods in customTraderAnalysesModel.
	TraderAnalysesModel interface {
		Insert(ctx context.Context, data *TraderAnalyses) (int64, error)
		LatestByAddress(ctx context.Context, address string) (*TraderAnalyses, error)
		RecentByAddress(ctx context.Context, address string, limit int) ([]TraderAnalyses, error)
		TopByOverallScore(ctx context.Context, limit int) ([]TraderAnalyses, error)
	}

	customTraderAnalysesModel struct {
		sqlc.CachedConn
		table string
	}
)

// NewTraderAnalysesModel returns a model for the database table.
func NewTraderAnalysesModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) TraderAnalysesModel {
	return &customTraderAnalysesModel{
		CachedConn: sqlc.NewConn(conn, c, opts...),
		table:      "public.trader_analyses",
	}
}

// Insert appends a new analysis row and invalidates the latest-analysis cache
// for the address.
func (m *customTraderAnalysesModel) Insert(ctx context.Context, data *TraderAnalyses) (int64, error) {
	key := fmt.Sprintf("%s%v", cacheTraderAnalysesLatestPrefix, data.Address)
	var id int64
	err := m.QueryRowNoCacheCtx(ctx, &id, fmt.Sprintf(`INSERT INTO %s
    (address, overall_score, experience_score, consistency_score, risk_score, performance_score, style_tags, report, insight, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`, m.table),
		data.Address, data.OverallScore, data.ExperienceScore, data.ConsistencyScore,
		data.RiskScore, data.PerformanceScore, data.StyleTags, data.Report,
		data.Insight, data.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("trader_analyses.Insert: %w", err)
	}
	if err := m.DelCacheCtx(ctx, key); err != nil {
		return id, err
	}
	return id, nil
}

func (m *customTraderAnalysesModel) LatestByAddress(ctx context.Context, address string) (*TraderAnalyses, error) {
	key := fmt.Sprintf("%s%v", cacheTraderAnalysesLatestPrefix, address)
	var resp TraderAnalyses
	err := m.QueryRowCtx(ctx, &resp, key, func(ctx context.Context, conn sqlx.SqlConn, v any) error {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE address = $1 ORDER BY created_at DESC LIMIT 1", traderAnalysesRows, m.table)
		return conn.QueryRowCtx(ctx, v, query, address)
	})
	switch err {
	case nil:
		return &resp, nil
	case sqlc.ErrNotFound:
		return nil, ErrNotFound
	default:
		return nil, err
	}
}

// RecentByAddress returns past analyses newest first. Limit defaults to 20
// when non-positive.
func (m *customTraderAnalysesModel) RecentByAddress(ctx context.Context, address string, limit int) ([]TraderAnalyses, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE address = $1 ORDER BY created_at DESC LIMIT $2", traderAnalysesRows, m.table)
	var rows []TraderAnalyses
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query, address, limit); err != nil {
		return nil, fmt.Errorf("trader_analyses.RecentByAddress query: %w", err)
	}
	return rows, nil
}

// TopByOverallScore ranks addresses by their most recent overall score.
func (m *customTraderAnalysesModel) TopByOverallScore(ctx context.Context, limit int) ([]TraderAnalyses, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM (
    SELECT DISTINCT ON (address) %s FROM %s ORDER BY address, created_at DESC
) latest ORDER BY overall_score DESC LIMIT $1`, traderAnalysesRows, traderAnalysesRows, m.table)
	var rows []TraderAnalyses
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("trader_analyses.TopByOverallScore query: %w", err)
	}
	return rows, nil
}
