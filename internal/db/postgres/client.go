// Package postgres persists trades, positions, price history and daily
// stats. The whole package is optional at runtime: without a database URL
// the bot runs from its in-memory state and the JSONL trade log alone.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	id            BIGSERIAL PRIMARY KEY,
	timestamp     TIMESTAMPTZ NOT NULL,
	symbol        TEXT NOT NULL,
	side          TEXT NOT NULL,
	quantity      DOUBLE PRECISION NOT NULL,
	price         DOUBLE PRECISION NOT NULL,
	total_value   DOUBLE PRECISION NOT NULL,
	order_id      TEXT NOT NULL,
	reason        TEXT NOT NULL,
	realized_pnl  DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades (timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades (symbol);

CREATE TABLE IF NOT EXISTS positions (
	symbol              TEXT PRIMARY KEY,
	quantity            DOUBLE PRECISION NOT NULL,
	average_entry_price DOUBLE PRECISION NOT NULL,
	opened_at           TIMESTAMPTZ,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS price_history (
	id        BIGSERIAL PRIMARY KEY,
	timestamp TIMESTAMPTZ NOT NULL,
	symbol    TEXT NOT NULL,
	price     DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_history_symbol_ts ON price_history (symbol, timestamp DESC);

CREATE TABLE IF NOT EXISTS daily_stats (
	date           DATE PRIMARY KEY,
	trades         INTEGER NOT NULL DEFAULT 0,
	winning_trades INTEGER NOT NULL DEFAULT 0,
	losing_trades  INTEGER NOT NULL DEFAULT 0,
	realized_pnl   DOUBLE PRECISION NOT NULL DEFAULT 0
);
`

// InitSchema creates the tables if they do not exist.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: init schema: %w", err)
	}
	return nil
}
