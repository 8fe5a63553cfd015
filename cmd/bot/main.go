package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-trading-bot/internal/db/postgres"
	"crypto-trading-bot/internal/eod"
	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/server"
	"crypto-trading-bot/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	must(err)

	compressOldLogs(ctx)

	pool, err := initializeDatabase(ctx, cfg)
	must(err)
	if pool != nil {
		defer pool.Close()
	}

	var rec interfaces.Recorder
	if pool != nil {
		rec = postgres.NewRecorder(pool)
	}

	var alerts interfaces.Alerter
	if n := initializeNotifier(ctx, cfg); n != nil {
		alerts = n
	}

	feed := initializeFeed(cfg)
	brk := initializeBroker(ctx, cfg)
	eng, obsEng := initializeEngine(cfg, feed, brk, rec, alerts)

	srv := initializeServer(cfg, pool, eng)
	go func() {
		if err := srv.Start(); err != nil {
			logger.ErrorWithErr(ctx, "API server exited", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()
	eodTick := time.NewTicker(10 * time.Minute)
	defer eodTick.Stop()

	logger.Info(ctx, "Bot started",
		"symbol", cfg.Symbol,
		"mode", cfg.Mode,
		"poll_seconds", cfg.PollSeconds,
	)

	for {
		select {
		case <-tick.C:
			res, err := obsEng.Tick(ctx, cfg.Symbol)
			if err != nil {
				logger.ErrorWithErr(ctx, "Tick failed", err, "symbol", cfg.Symbol)
				continue
			}
			if res != nil {
				b, _ := json.Marshal(res)
				fmt.Println(string(b))
			}
		case <-eodTick.C:
			runEOD(ctx, pool)
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			shutdown(ctx, srv, pool)
			return
		case <-ctx.Done():
			shutdown(ctx, srv, pool)
			return
		}
	}
}

// runEOD summarizes any finished day that has no CSV yet and upserts its
// stats when a database is configured.
func runEOD(ctx context.Context, pool *pgxpool.Pool) {
	ok, day := eod.ShouldRunNow()
	if !ok {
		return
	}
	if p, err := eod.SummarizeDay(day); err == nil && p != "" {
		logger.Info(ctx, "EOD CSV written", "path", p)
	}
	upsertDayStats(ctx, pool, day)
}

func upsertDayStats(ctx context.Context, pool *pgxpool.Pool, day time.Time) {
	if pool == nil {
		return
	}
	stats, err := eod.DayStats(day)
	if err != nil {
		logger.Warn(ctx, "Failed to aggregate daily stats", "error", err)
		return
	}
	if err := postgres.NewStatsStore(pool).UpsertDailyStats(ctx, stats); err != nil {
		logger.Warn(ctx, "Failed to upsert daily stats", "error", err)
	}
}

func shutdown(ctx context.Context, srv *server.Server, pool *pgxpool.Pool) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "API server shutdown failed", "error", err)
	}

	now := time.Now().UTC()
	if p, err := eod.SummarizeToday(); err == nil && p != "" {
		logger.Info(ctx, "EOD CSV written", "path", p)
	}
	upsertDayStats(ctx, pool, now)

	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Tracer shutdown failed", "error", err)
	}
}
