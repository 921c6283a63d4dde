package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlc"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ TradersModel = (*customTradersModel)(nil)

const tradersRows = "address, display_name, account_value, daily_pnl, daily_roi, daily_volume, first_seen_at, updated_at"

const cacheTradersAddressPrefix = "cache:traderep:traders:address:"

// Traders maps a row of the public.traders table.
type Traders struct {
	Address      string          `db:"address"`
	DisplayName  sql.NullString  `db:"display_name"`
	AccountValue sql.NullFloat64 `db:"account_value"`
	DailyPnl     sql.NullFloat64 `db:"daily_pnl"`
	DailyRoi     sql.NullFloat64 `db:"daily_roi"`
	DailyVolume  sql.NullFloat64 `db:"daily_volume"`
	FirstSeenAt  int64           `db:"first_seen_at"`
	UpdatedAt    int64           `db:"updated_at"`
}

type (
	// TradersModel is an interface to be customized, add more methods here,
	// and implement the added methods in customTradersModel.
	TradersModel interface {
		Upsert(ctx context.Context, data *Traders) error
		FindOne(ctx context.Context, address string) (*Traders, error)
		TopByAccountValue(ctx context.Context, limit int) ([]Traders, error)
		Delete(ctx context.Context, address string) error
	}

	customTradersModel struct {
		sqlc.CachedConn
		table string
	}
)

// NewTradersModel returns a model for the database table.
func NewTradersModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) TradersModel {
	return &customTradersModel{
		CachedConn: sqlc.NewConn(conn, c, opts...),
		table:      "public.traders",
	}
}

// Upsert inserts the trader or refreshes its leaderboard snapshot columns,
// keeping the original first_seen_at.
func (m *customTradersModel) Upsert(ctx context.Context, data *Traders) error {
	key := fmt.Sprintf("%s%v", cacheTradersAddressPrefix, data.Address)
	_, err := m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (address) DO UPDATE SET
    display_name = EXCLUDED.display_name,
    account_value = EXCLUDED.account_value,
    daily_pnl = EXCLUDED.daily_pnl,
    daily_roi = EXCLUDED.daily_roi,
    daily_volume = EXCLUDED.daily_volume,
    updated_at = EXCLUDED.updated_at`, m.table, tradersRows)
		return conn.ExecCtx(ctx, query,
			data.Address, data.DisplayName, data.AccountValue, data.DailyPnl,
			data.DailyRoi, data.DailyVolume, data.FirstSeenAt, data.UpdatedAt)
	}, key)
	return err
}

func (m *customTradersModel) FindOne(ctx context.Context, address string) (*Traders, error) {
	key := fmt.Sprintf("%s%v", cacheTradersAddressPrefix, address)
	var resp Traders
	err := m.QueryRowCtx(ctx, &resp, key, func(ctx context.Context, conn sqlx.SqlConn, v any) error {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE address = $1 LIMIT 1", tradersRows, m.table)
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

// TopByAccountValue lists traders ordered by account value descending.
// Limit defaults to 10 when non-positive.
func (m *customTradersModel) TopByAccountValue(ctx context.Context, limit int) ([]Traders, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY account_value DESC NULLS LAST LIMIT $1", tradersRows, m.table)
	var rows []Traders
	if err := m.QueryRowsNoCacheCtx(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("traders.TopByAccountValue query: %w", err)
	}
	return rows, nil
}

func (m *customTradersModel) Delete(ctx context.Context, address string) error {
	key := fmt.Sprintf("%s%v", cacheTradersAddressPrefix, address)
	_, err := m.ExecCtx(ctx, func(ctx context.Context, conn sqlx.SqlConn) (sql.Result, error) {
		query := fmt.Sprintf("DELETE FROM %s WHERE address = $1", m.table)
		return conn.ExecCtx(ctx, query, address)
	}, key)
	return err
}
