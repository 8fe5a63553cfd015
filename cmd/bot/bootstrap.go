package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"crypto-trading-bot/internal/broker/brokerobs"
	"crypto-trading-bot/internal/broker/robinhood"
	"crypto-trading-bot/internal/db/postgres"
	"crypto-trading-bot/internal/engine"
	"crypto-trading-bot/internal/engine/engineobs"
	"crypto-trading-bot/internal/eod"
	"crypto-trading-bot/internal/eod/eodobs"
	"crypto-trading-bot/internal/feed/binance"
	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/notify"
	"crypto-trading-bot/internal/server"
	"crypto-trading-bot/internal/store"
	"crypto-trading-bot/internal/trace"
	"crypto-trading-bot/internal/tradelog"
	"crypto-trading-bot/internal/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// initializeSystem initializes logger, tracer, and EOD summarizer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	// Initialize EOD summarizer with observability
	initializeEOD()

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("BOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old tradelog files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeFeed returns the price feed
func initializeFeed(cfg *store.Config) interfaces.PriceFeed {
	return binance.New(cfg.Feed.BaseURL)
}

// initializeBroker initializes and returns the broker with observability
func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	brk := robinhood.New(robinhood.Params{
		Mode:    cfg.Mode,
		BaseURL: cfg.Broker.BaseURL,
		Token:   os.Getenv("BROKER_API_TOKEN"),
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}

	return brokerobs.Wrap(brk)
}

// initializeDatabase connects to postgres when a URL is configured. A nil
// return with nil error means persistence is disabled.
func initializeDatabase(ctx context.Context, cfg *store.Config) (*pgxpool.Pool, error) {
	url := os.Getenv(cfg.Database.URLEnv)
	if url == "" {
		logger.Warn(ctx, "No database URL configured - persistence disabled", "env", cfg.Database.URLEnv)
		return nil, nil
	}

	pool, err := postgres.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := postgres.InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info(ctx, "Database connected")
	return pool, nil
}

// initializeNotifier builds the alert notifier from config. Returns nil when
// no channels are configured.
func initializeNotifier(ctx context.Context, cfg *store.Config) *notify.Notifier {
	var senders []notify.Sender

	if cfg.Alerts.WebhookURL != "" {
		senders = append(senders, notify.NewWebhookSender(cfg.Alerts.WebhookURL))
	}
	if cfg.Alerts.Email.SMTPServer != "" && cfg.Alerts.Email.From != "" {
		var to []string
		for _, addr := range strings.Split(cfg.Alerts.Email.To, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				to = append(to, addr)
			}
		}
		senders = append(senders, notify.NewEmailSender(notify.EmailConfig{
			Server:   cfg.Alerts.Email.SMTPServer,
			Port:     cfg.Alerts.Email.SMTPPort,
			From:     cfg.Alerts.Email.From,
			Password: os.Getenv("SMTP_PASSWORD"),
			To:       to,
		}))
	}

	if len(senders) == 0 {
		logger.Info(ctx, "No alert channels configured")
		return nil
	}
	logger.Info(ctx, "Alerts enabled", "channels", len(senders), "events", cfg.Alerts.Events)
	return notify.NewNotifier(senders, cfg.Alerts.Events)
}

// initializeEngine wires the engine and wraps it with observability
func initializeEngine(cfg *store.Config, feed interfaces.PriceFeed, brk interfaces.Broker, rec interfaces.Recorder, alerts interfaces.Alerter) (*engine.Engine, interfaces.Engine) {
	eng := engine.New(cfg, feed, brk, rec, alerts)
	return eng, engineobs.Wrap(eng)
}

// initializeServer builds the read-only API server
func initializeServer(cfg *store.Config, pool *pgxpool.Pool, eng *engine.Engine) *server.Server {
	var (
		trades    interfaces.TradeStore
		positions interfaces.PositionStore
		stats     interfaces.StatsStore
	)
	if pool != nil {
		trades = postgres.NewTradeStore(pool)
		positions = postgres.NewPositionStore(pool)
		stats = postgres.NewStatsStore(pool)
	}

	h := server.NewHandler(trades, positions, stats, func() types.EngineStatus {
		return eng.Status(cfg.Symbol)
	})
	return server.New(cfg.API.Addr, h)
}

// initializeEOD wraps the default EOD summarizer with observability
func initializeEOD() {
	baseSummarizer := eod.NewSummarizer()
	observableSummarizer := eodobs.Wrap(baseSummarizer)
	eod.SetDefaultSummarizer(observableSummarizer)
}
