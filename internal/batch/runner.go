// Package batch implements the periodic top-trader sweep: fetch the
// leaderboard, analyze each trader concurrently, and record the results. A
// failing trader never aborts the sweep.
package batch

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"traderep-api/internal/pipeline"
	"traderep-api/pkg/hyperliquid"
)

// TraderAnalyzer runs a full analysis for one address.
type TraderAnalyzer interface {
	Run(ctx context.Context, address string, opts pipeline.Options) (*pipeline.Result, error)
	TopTraders(ctx context.Context, filter hyperliquid.TopTradersFilter) ([]hyperliquid.TopTrader, error)
}

// TraderRecorder refreshes the stored leaderboard snapshot for a trader.
// Implemented by repo.AnalysisRepo; nil-safe there.
type TraderRecorder interface {
	RecordTrader(ctx context.Context, trader hyperliquid.TopTrader) error
}

// Config drives the sweep cadence and concurrency.
type Config struct {
	// Interval between sweeps. Non-positive means run a single sweep.
	Interval time.Duration
	// Workers caps concurrent trader analyses. Defaults to 4.
	Workers int
	// TraderTimeout bounds one trader's end-to-end analysis. Defaults to 30s.
	TraderTimeout time.Duration
	// TopN is the leaderboard size to sweep. Defaults to 10.
	TopN int
	// MinDailyVolume filters thinly trading accounts out of the sweep.
	MinDailyVolume float64
	// WithInsight asks for LLM narration on each analysis.
	WithInsight bool
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.TraderTimeout <= 0 {
		c.TraderTimeout = 30 * time.Second
	}
	if c.TopN <= 0 {
		c.TopN = 10
	}
	return c
}

// Stats summarizes one sweep.
type Stats struct {
	Traders  int
	Analyzed int
	Failed   int
	Elapsed  time.Duration
}

// Runner sweeps the leaderboard on a schedule.
type Runner struct {
	analyzer TraderAnalyzer
	recorder TraderRecorder
	cfg      Config
}

func NewRunner(analyzer TraderAnalyzer, recorder TraderRecorder, cfg Config) *Runner {
	return &Runner{analyzer: analyzer, recorder: recorder, cfg: cfg.withDefaults()}
}

// Start sweeps immediately, then on every interval tick until the context is
// cancelled. With a non-positive interval it performs a single sweep.
func (r *Runner) Start(ctx context.Context) error {
	if _, err := r.Sweep(ctx); err != nil {
		logx.WithContext(ctx).Errorf("batch: sweep failed: %v", err)
	}
	if r.cfg.Interval <= 0 {
		return ctx.Err()
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				logx.WithContext(ctx).Errorf("batch: sweep failed: %v", err)
			}
		}
	}
}

// Sweep runs one full pass over the current leaderboard. The returned error
// covers only the leaderboard fetch; per-trader failures are counted in Stats
// and logged, not propagated, so one bad trader cannot sink the rest.
func (r *Runner) Sweep(ctx context.Context) (Stats, error) {
	start := time.Now()
	logger := logx.WithContext(ctx)

	traders, err := r.analyzer.TopTraders(ctx, hyperliquid.TopTradersFilter{
		Limit:          r.cfg.TopN,
		MinDailyVolume: r.cfg.MinDailyVolume,
	})
	if err != nil {
		return Stats{Elapsed: time.Since(start)}, err
	}

	stats := Stats{Traders: len(traders)}
	results := make([]error, len(traders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, trader := range traders {
		i, trader := i, trader
		g.Go(func() error {
			results[i] = r.analyzeOne(gctx, trader)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		if err != nil {
			stats.Failed++
			logger.Errorf("batch: trader %s failed: %v", traders[i].Address, err)
			continue
		}
		stats.Analyzed++
	}

	stats.Elapsed = time.Since(start)
	logger.Infof("batch: sweep done traders=%d analyzed=%d failed=%d elapsed=%s",
		stats.Traders, stats.Analyzed, stats.Failed, stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}

func (r *Runner) analyzeOne(ctx context.Context, trader hyperliquid.TopTrader) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.TraderTimeout)
	defer cancel()

	if r.recorder != nil {
		if err := r.recorder.RecordTrader(ctx, trader); err != nil {
			// Snapshot bookkeeping must not block the analysis itself.
			logx.WithContext(ctx).Errorf("batch: record trader %s: %v", trader.Address, err)
		}
	}

	_, err := r.analyzer.Run(ctx, trader.Address, pipeline.Options{
		Refresh:     true,
		WithInsight: r.cfg.WithInsight,
		Persist:     true,
	})
	return err
}
