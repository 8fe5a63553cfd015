package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-trading-bot/internal/types"
)

// StatsStore implements interfaces.StatsStore using PostgreSQL.
type StatsStore struct {
	pool *pgxpool.Pool
}

func NewStatsStore(pool *pgxpool.Pool) *StatsStore {
	return &StatsStore{pool: pool}
}

// UpsertDailyStats replaces the row for the stats' calendar day.
func (s *StatsStore) UpsertDailyStats(ctx context.Context, stats types.DailyStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO daily_stats (date, trades, winning_trades, losing_trades, realized_pnl)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE SET
			trades = EXCLUDED.trades,
			winning_trades = EXCLUDED.winning_trades,
			losing_trades = EXCLUDED.losing_trades,
			realized_pnl = EXCLUDED.realized_pnl`,
		stats.Day.UTC().Format("2006-01-02"),
		stats.Trades, stats.Wins, stats.Losses, stats.RealizedPnL,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert daily stats: %w", err)
	}
	return nil
}

// DailyStats returns the stats row for the given day. A missing day comes
// back as zeroed stats, not an error.
func (s *StatsStore) DailyStats(ctx context.Context, day time.Time) (types.DailyStats, error) {
	stats := types.DailyStats{Day: day}
	err := s.pool.QueryRow(ctx, `
		SELECT trades, winning_trades, losing_trades, realized_pnl
		FROM daily_stats WHERE date = $1`,
		day.UTC().Format("2006-01-02"),
	).Scan(&stats.Trades, &stats.Wins, &stats.Losses, &stats.RealizedPnL)
	if errors.Is(err, pgx.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return types.DailyStats{}, fmt.Errorf("postgres: get daily stats: %w", err)
	}
	return stats, nil
}
