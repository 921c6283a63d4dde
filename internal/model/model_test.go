package model

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// Integration tests against a real Postgres + Redis pair. Apply
// scripts/schema.sql first, then run with:
//
//	TRADEREP_TEST_PG_DSN=postgres://... TRADEREP_TEST_REDIS_ADDR=localhost:6379 go test ./internal/model/...
func testModels(t *testing.T) (TradersModel, TraderAnalysesModel) {
	t.Helper()
	dsn := os.Getenv("TRADEREP_TEST_PG_DSN")
	redisAddr := os.Getenv("TRADEREP_TEST_REDIS_ADDR")
	if dsn == "" || redisAddr == "" {
		t.Skip("set TRADEREP_TEST_PG_DSN and TRADEREP_TEST_REDIS_ADDR to run model integration tests")
	}

	conn := sqlx.NewSqlConn("pgx", dsn)
	cacheConf := cache.CacheConf{{RedisConf: redis.RedisConf{Host: redisAddr, Type: "node"}, Weight: 100}}
	return NewTradersModel(conn, cacheConf), NewTraderAnalysesModel(conn, cacheConf)
}

func testAddress(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("0x%038x%02x", time.Now().UnixNano(), os.Getpid()%256)[:42]
}

func TestTradersUpsertFindDelete(t *testing.T) {
	traders, _ := testModels(t)
	ctx := context.Background()
	addr := testAddress(t)

	now := time.Now().UnixMilli()
	row := &Traders{
		Address:      addr,
		DisplayName:  sql.NullString{String: "integration", Valid: true},
		AccountValue: sql.NullFloat64{Float64: 12345.67, Valid: true},
		DailyPnl:     sql.NullFloat64{Float64: 100, Valid: true},
		FirstSeenAt:  now,
		UpdatedAt:    now,
	}
	require.NoError(t, traders.Upsert(ctx, row))
	t.Cleanup(func() { _ = traders.Delete(context.Background(), addr) })

	found, err := traders.FindOne(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "integration", found.DisplayName.String)
	assert.InDelta(t, 12345.67, found.AccountValue.Float64, 1e-9)
	assert.Equal(t, now, found.FirstSeenAt)

	// Second upsert refreshes snapshot columns but keeps first_seen_at.
	row.AccountValue = sql.NullFloat64{Float64: 999, Valid: true}
	row.FirstSeenAt = now + 5000
	row.UpdatedAt = now + 5000
	require.NoError(t, traders.Upsert(ctx, row))

	found, err = traders.FindOne(ctx, addr)
	require.NoError(t, err)
	assert.InDelta(t, 999, found.AccountValue.Float64, 1e-9)
	assert.Equal(t, now, found.FirstSeenAt)
	assert.Equal(t, now+5000, found.UpdatedAt)

	require.NoError(t, traders.Delete(ctx, addr))
	_, err = traders.FindOne(ctx, addr)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTraderAnalysesInsertAndQuery(t *testing.T) {
	_, analyses := testModels(t)
	ctx := context.Background()
	addr := testAddress(t)

	base := time.Now().UnixMilli()
	var lastID int64
	for i := 0; i < 3; i++ {
		id, err := analyses.Insert(ctx, &TraderAnalyses{
			Address:      addr,
			OverallScore: float64(50 + i*10),
			StyleTags:    []string{"style:Scalper"},
			Report:       []byte(fmt.Sprintf(`{"user_address":%q}`, addr)),
			CreatedAt:    base + int64(i)*1000,
		})
		require.NoError(t, err)
		assert.Greater(t, id, lastID)
		lastID = id
	}

	latest, err := analyses.LatestByAddress(ctx, addr)
	require.NoError(t, err)
	assert.InDelta(t, 70, latest.OverallScore, 1e-9)
	assert.Equal(t, base+2000, latest.CreatedAt)
	assert.Equal(t, []string{"style:Scalper"}, []string(latest.StyleTags))

	recent, err := analyses.RecentByAddress(ctx, addr, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].CreatedAt > recent[1].CreatedAt, "newest first")

	top, err := analyses.TopByOverallScore(ctx, 1000)
	require.NoError(t, err)
	seen := 0
	for _, row := range top {
		if row.Address == addr {
			seen++
			assert.InDelta(t, 70, row.OverallScore, 1e-9, "only the latest row per address ranks")
		}
	}
	assert.Equal(t, 1, seen)

	_, err = analyses.LatestByAddress(ctx, "0x00000000000000000000000000000000000000ff")
	assert.ErrorIs(t, err, ErrNotFound)
}
