package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zeromicro/go-zero/core/logx"

	appcache "traderep-api/internal/cache"
	"traderep-api/internal/repo"
	"traderep-api/pkg/analytics"
	"traderep-api/pkg/hyperliquid"
	"traderep-api/pkg/insight"
)

// ErrInvalidAddress rejects anything that is not a hex Ethereum address
// before a single upstream request is made.
var ErrInvalidAddress = errors.New("invalid trader address")

// Result is a finished end-to-end analysis.
type Result struct {
	Report  *analytics.Report
	Insight *insight.Insights
	Cached  bool
}

// Options tune a single pipeline run.
type Options struct {
	// Refresh bypasses the cached analysis and recomputes from upstream data.
	Refresh bool
	// WithInsight asks the LLM for a narrative read; silently skipped when no
	// generator is configured.
	WithInsight bool
	// Persist stores the finished report in Postgres.
	Persist bool
}

// cachedAnalysis is the msgpack payload stored under the analysis cache kind.
type cachedAnalysis struct {
	Report  *analytics.Report `msgpack:"report"`
	Insight *insight.Insights `msgpack:"insight,omitempty"`
}

// Service runs the full analysis pipeline for one trader: fetch raw history,
// normalize, replay the ledger, aggregate, classify, score, optionally narrate
// and persist. The cache sits in front of both the raw feeds and the finished
// analysis.
type Service struct {
	client   *hyperliquid.Client
	cache    *appcache.Store
	analyzer *analytics.Analyzer
	insight  *insight.Generator
	repo     *repo.AnalysisRepo
}

func NewService(client *hyperliquid.Client, cache *appcache.Store, analyzer *analytics.Analyzer,
	generator *insight.Generator, analysisRepo *repo.AnalysisRepo) *Service {
	return &Service{
		client:   client,
		cache:    cache,
		analyzer: analyzer,
		insight:  generator,
		repo:     analysisRepo,
	}
}

// Run analyzes one trader end to end.
func (s *Service) Run(ctx context.Context, address string, opts Options) (*Result, error) {
	addr := strings.ToLower(strings.TrimSpace(address))
	if !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	if !opts.Refresh {
		var cached cachedAnalysis
		if ok, _ := s.cache.Get(ctx, appcache.KindAnalysis, addr, &cached); ok && cached.Report != nil {
			if opts.WithInsight && cached.Insight == nil {
				cached.Insight = s.generateInsight(ctx, cached.Report)
				if cached.Insight != nil {
					s.setAnalysisCache(ctx, addr, cached)
				}
			}
			return &Result{Report: cached.Report, Insight: cached.Insight, Cached: true}, nil
		}
	}

	// Fills are the execution record and drive the whole analysis; the order
	// history and clearinghouse state only enrich it, so their failures are
	// tolerated.
	fills, err := s.fetchFills(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("fetch fills for %s: %w", addr, err)
	}
	orders, err := s.fetchOrders(ctx, addr)
	if err != nil {
		logx.WithContext(ctx).Errorf("fetch orders for %s: %v", addr, err)
		orders = nil
	}
	leverages, err := s.fetchLeverages(ctx, addr)
	if err != nil {
		logx.WithContext(ctx).Errorf("fetch user state for %s: %v", addr, err)
		leverages = nil
	}

	events := analytics.NormalizeFills(fills)
	report := s.analyzer.Analyze(addr, events, leverages)
	analytics.MergeOrderShape(&report.Metrics, analytics.NormalizeOrders(orders))

	var ins *insight.Insights
	if opts.WithInsight {
		ins = s.generateInsight(ctx, report)
	}

	if opts.Persist {
		if err := s.repo.SaveReport(ctx, report, ins); err != nil {
			logx.WithContext(ctx).Errorf("persist analysis for %s: %v", addr, err)
		}
	}
	s.setAnalysisCache(ctx, addr, cachedAnalysis{Report: report, Insight: ins})

	return &Result{Report: report, Insight: ins}, nil
}

// TopTraders lists leaderboard traders through the medium-TTL cache.
func (s *Service) TopTraders(ctx context.Context, filter hyperliquid.TopTradersFilter) ([]hyperliquid.TopTrader, error) {
	cacheKey := fmt.Sprintf("%d:%g:%g:%g", filter.Limit, filter.MinDailyVolume, filter.MinDailyPnl, filter.MinDailyRoi)
	var traders []hyperliquid.TopTrader
	if ok, _ := s.cache.Get(ctx, appcache.KindLeaderboard, cacheKey, &traders); ok {
		return traders, nil
	}
	traders, err := s.client.TopTraders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	if err := s.cache.Set(ctx, appcache.KindLeaderboard, cacheKey, traders); err != nil {
		logx.WithContext(ctx).Errorf("cache leaderboard: %v", err)
	}
	return traders, nil
}

func (s *Service) generateInsight(ctx context.Context, report *analytics.Report) *insight.Insights {
	if s.insight == nil {
		return nil
	}
	ins, err := s.insight.Generate(ctx, report)
	if err != nil {
		// The quantitative report stands on its own without the narrative.
		logx.WithContext(ctx).Errorf("generate insight for %s: %v", report.Address, err)
		return nil
	}
	return ins
}

func (s *Service) setAnalysisCache(ctx context.Context, addr string, payload cachedAnalysis) {
	if err := s.cache.Set(ctx, appcache.KindAnalysis, addr, payload); err != nil {
		logx.WithContext(ctx).Errorf("cache analysis for %s: %v", addr, err)
	}
}

func (s *Service) fetchFills(ctx context.Context, addr string) ([]hyperliquid.Fill, error) {
	var fills []hyperliquid.Fill
	if ok, _ := s.cache.Get(ctx, appcache.KindFills, addr, &fills); ok {
		return fills, nil
	}
	fills, err := s.client.UserFills(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, appcache.KindFills, addr, fills); err != nil {
		logx.WithContext(ctx).Errorf("cache fills for %s: %v", addr, err)
	}
	return fills, nil
}

func (s *Service) fetchOrders(ctx context.Context, addr string) ([]hyperliquid.OrderRecord, error) {
	var orders []hyperliquid.OrderRecord
	if ok, _ := s.cache.Get(ctx, appcache.KindOrders, addr, &orders); ok {
		return orders, nil
	}
	orders, err := s.client.HistoricalOrders(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, appcache.KindOrders, addr, orders); err != nil {
		logx.WithContext(ctx).Errorf("cache orders for %s: %v", addr, err)
	}
	return orders, nil
}

// fetchLeverages flattens per-position leverage values out of the
// clearinghouse state.
func (s *Service) fetchLeverages(ctx context.Context, addr string) ([]float64, error) {
	var state *hyperliquid.UserState
	if ok, _ := s.cache.Get(ctx, appcache.KindUserState, addr, &state); !ok || state == nil {
		fetched, err := s.client.UserState(ctx, addr)
		if err != nil {
			return nil, err
		}
		state = fetched
		if err := s.cache.Set(ctx, appcache.KindUserState, addr, state); err != nil {
			logx.WithContext(ctx).Errorf("cache user state for %s: %v", addr, err)
		}
	}

	leverages := make([]float64, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		if ap.Position.Leverage.Value > 0 {
			leverages = append(leverages, ap.Position.Leverage.Value)
		}
	}
	return leverages, nil
}
