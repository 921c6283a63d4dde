package svc

import (
	"log"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	appcache "traderep-api/internal/cache"
	"traderep-api/internal/config"
	"traderep-api/internal/model"
	"traderep-api/internal/pipeline"
	"traderep-api/internal/repo"
	"traderep-api/pkg/analytics"
	"traderep-api/pkg/hyperliquid"
	"traderep-api/pkg/insight"
)

type ServiceContext struct {
	Config *config.Config

	Hyperliquid *hyperliquid.Client
	Analyzer    *analytics.Analyzer
	Cache       *appcache.Store
	TTL         appcache.TTLSet

	// Insight is nil when no insight config file is wired in.
	Insight *insight.Generator

	// DB layer; nil models when Postgres is not configured.
	DBConn              sqlx.SqlConn
	TradersModel        model.TradersModel
	TraderAnalysesModel model.TraderAnalysesModel
	Repo                *repo.AnalysisRepo

	Pipeline *pipeline.Service
}

func NewServiceContext(c *config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config:   c,
		Analyzer: analytics.NewAnalyzer(),
		TTL:      appcache.NewTTLSet(c.TTL),
	}

	hlOpts := []hyperliquid.Option{}
	if c.Hyperliquid.InfoURL != "" {
		hlOpts = append(hlOpts, hyperliquid.WithInfoURL(c.Hyperliquid.InfoURL))
	}
	if c.Hyperliquid.LeaderboardURL != "" {
		hlOpts = append(hlOpts, hyperliquid.WithLeaderboardURL(c.Hyperliquid.LeaderboardURL))
	}
	if c.Hyperliquid.MaxRetries > 0 {
		hlOpts = append(hlOpts, hyperliquid.WithMaxRetries(c.Hyperliquid.MaxRetries))
	}
	svc.Hyperliquid = hyperliquid.NewClient(hlOpts...)

	if c.Redis.Host != "" {
		rds, err := redis.NewRedis(c.Redis)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		svc.Cache = appcache.NewStore(rds, svc.TTL)
	}

	if c.Insight.File != "" {
		insightCfg, err := insight.LoadConfig(c.ResolvePath(c.Insight.File))
		if err != nil {
			log.Fatalf("failed to load insight config: %v", err)
		}
		generator, err := insight.NewGenerator(insightCfg)
		if err != nil {
			log.Fatalf("failed to init insight generator: %v", err)
		}
		svc.Insight = generator
	}

	// Only inject DB models when DSN provided; analyses still run without
	// persistence, they just are not stored. The cached models need Redis.
	if c.Postgres.DSN != "" {
		if c.Redis.Host == "" {
			log.Fatal("postgres persistence requires a redis cache configuration")
		}
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn

		cacheConf := gocache.CacheConf{{RedisConf: c.Redis, Weight: 100}}
		svc.TradersModel = model.NewTradersModel(conn, cacheConf)
		svc.TraderAnalysesModel = model.NewTraderAnalysesModel(conn, cacheConf)
	}
	svc.Repo = repo.NewAnalysisRepo(svc.TradersModel, svc.TraderAnalysesModel)
	svc.Pipeline = pipeline.NewService(svc.Hyperliquid, svc.Cache, svc.Analyzer, svc.Insight, svc.Repo)

	return svc
}
