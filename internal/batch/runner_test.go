package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traderep-api/internal/pipeline"
	"traderep-api/pkg/hyperliquid"
)

type fakeAnalyzer struct {
	mu       sync.Mutex
	traders  []hyperliquid.TopTrader
	boardErr error
	failFor  map[string]error
	analyzed []string
	opts     []pipeline.Options
}

func (f *fakeAnalyzer) TopTraders(ctx context.Context, filter hyperliquid.TopTradersFilter) ([]hyperliquid.TopTrader, error) {
	if f.boardErr != nil {
		return nil, f.boardErr
	}
	return f.traders, nil
}

func (f *fakeAnalyzer) Run(ctx context.Context, address string, opts pipeline.Options) (*pipeline.Result, error) {
	f.mu.Lock()
	f.analyzed = append(f.analyzed, address)
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	if err, ok := f.failFor[address]; ok {
		return nil, err
	}
	return &pipeline.Result{}, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	recorded []string
	err      error
}

func (f *fakeRecorder) RecordTrader(ctx context.Context, trader hyperliquid.TopTrader) error {
	f.mu.Lock()
	f.recorded = append(f.recorded, trader.Address)
	f.mu.Unlock()
	return f.err
}

func board(addrs ...string) []hyperliquid.TopTrader {
	traders := make([]hyperliquid.TopTrader, 0, len(addrs))
	for _, a := range addrs {
		traders = append(traders, hyperliquid.TopTrader{Address: a})
	}
	return traders
}

func TestSweepAnalyzesEveryTrader(t *testing.T) {
	analyzer := &fakeAnalyzer{traders: board("0x1", "0x2", "0x3")}
	recorder := &fakeRecorder{}
	runner := NewRunner(analyzer, recorder, Config{Workers: 2})

	stats, err := runner.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Traders)
	assert.Equal(t, 3, stats.Analyzed)
	assert.Equal(t, 0, stats.Failed)
	assert.ElementsMatch(t, []string{"0x1", "0x2", "0x3"}, analyzer.analyzed)
	assert.ElementsMatch(t, []string{"0x1", "0x2", "0x3"}, recorder.recorded)
}

func TestSweepIsolatesTraderFailures(t *testing.T) {
	analyzer := &fakeAnalyzer{
		traders: board("0x1", "0x2", "0x3"),
		failFor: map[string]error{"0x2": errors.New("upstream down")},
	}
	runner := NewRunner(analyzer, &fakeRecorder{}, Config{})

	stats, err := runner.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Analyzed)
	assert.Equal(t, 1, stats.Failed)
	assert.Len(t, analyzer.analyzed, 3, "failure of one trader must not skip the rest")
}

func TestSweepPropagatesLeaderboardError(t *testing.T) {
	analyzer := &fakeAnalyzer{boardErr: errors.New("leaderboard 500")}
	runner := NewRunner(analyzer, nil, Config{})

	_, err := runner.Sweep(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaderboard 500")
}

func TestSweepRunsRefreshAndPersist(t *testing.T) {
	analyzer := &fakeAnalyzer{traders: board("0x1")}
	runner := NewRunner(analyzer, nil, Config{WithInsight: true})

	_, err := runner.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, analyzer.opts, 1)
	assert.True(t, analyzer.opts[0].Refresh, "sweeps always recompute")
	assert.True(t, analyzer.opts[0].Persist)
	assert.True(t, analyzer.opts[0].WithInsight)
}

func TestRecorderFailureDoesNotFailAnalysis(t *testing.T) {
	analyzer := &fakeAnalyzer{traders: board("0x1")}
	recorder := &fakeRecorder{err: errors.New("db gone")}
	runner := NewRunner(analyzer, recorder, Config{})

	stats, err := runner.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Analyzed)
	assert.Equal(t, 0, stats.Failed)
}

func TestStartSingleSweepWithoutInterval(t *testing.T) {
	analyzer := &fakeAnalyzer{traders: board("0x1")}
	runner := NewRunner(analyzer, nil, Config{Interval: 0})

	err := runner.Start(context.Background())
	assert.NoError(t, err)
	assert.Len(t, analyzer.analyzed, 1)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	analyzer := &fakeAnalyzer{traders: board("0x1")}
	runner := NewRunner(analyzer, nil, Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Start(ctx) }()

	// Let the initial sweep finish, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
