package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traderep-api/internal/batch"
	"traderep-api/internal/config"
	"traderep-api/internal/svc"
)

var (
	configFile = flag.String("f", "etc/traderep.yaml", "the config file")
	once       = flag.Bool("once", false, "run a single sweep and exit")
	withLLM    = flag.Bool("insight", false, "generate LLM insights during the sweep")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting trader reputation sweep...")

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[main] Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcCtx := svc.NewServiceContext(cfg)

	batchCfg := batch.Config{
		Interval:       time.Duration(cfg.Batch.IntervalSeconds) * time.Second,
		Workers:        cfg.Batch.Workers,
		TraderTimeout:  time.Duration(cfg.Batch.TraderTimeoutSeconds) * time.Second,
		TopN:           cfg.Batch.TopN,
		MinDailyVolume: cfg.Batch.MinDailyVolume,
		WithInsight:    *withLLM,
	}
	if *once {
		batchCfg.Interval = 0
	}

	runner := batch.NewRunner(svcCtx.Pipeline, svcCtx.Repo, batchCfg)

	log.Printf("[main] Sweep configured: topN=%d workers=%d interval=%s insight=%t",
		batchCfg.TopN, batchCfg.Workers, batchCfg.Interval, batchCfg.WithInsight)

	if err := runner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[main] Sweep runner stopped: %v", err)
	}
	log.Println("[main] Sweep runner stopped")
}
