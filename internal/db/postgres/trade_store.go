package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-trading-bot/internal/types"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// TradeStore implements interfaces.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *pgxpool.Pool
}

// NewTradeStore creates a new TradeStore backed by the given connection pool.
func NewTradeStore(pool *pgxpool.Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

const tradeSelectCols = `id, timestamp, symbol, side, quantity, price,
	total_value, order_id, reason, realized_pnl`

func scanTradeRows(rows pgx.Rows) ([]types.TradeRecord, error) {
	var trades []types.TradeRecord
	for rows.Next() {
		var t types.TradeRecord
		if err := rows.Scan(
			&t.ID, &t.Time, &t.Symbol, &t.Side, &t.Qty,
			&t.Price, &t.Notional, &t.OrderID, &t.Reason, &t.RealizedPnL,
		); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Insert records a confirmed fill.
func (s *TradeStore) Insert(ctx context.Context, t types.TradeRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO trades (
			timestamp, symbol, side, quantity, price,
			total_value, order_id, reason, realized_pnl
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.Time, t.Symbol, t.Side, t.Qty, t.Price,
		t.Notional, t.OrderID, t.Reason, t.RealizedPnL,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert trade: %w", err)
	}
	return nil
}

// RecentTrades returns the newest trades first, optionally filtered by symbol.
func (s *TradeStore) RecentTrades(ctx context.Context, limit int, symbol string) ([]types.TradeRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + tradeSelectCols + ` FROM trades`
	args := []any{}
	argIdx := 1

	if symbol != "" {
		query += fmt.Sprintf(" WHERE symbol = $%d", argIdx)
		args = append(args, symbol)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent trades: %w", err)
	}
	defer rows.Close()

	trades, err := scanTradeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan recent trades: %w", err)
	}
	return trades, nil
}

// TradeByID returns a single trade or ErrNotFound.
func (s *TradeStore) TradeByID(ctx context.Context, id int64) (types.TradeRecord, error) {
	var t types.TradeRecord
	err := s.pool.QueryRow(ctx,
		`SELECT `+tradeSelectCols+` FROM trades WHERE id = $1`, id).Scan(
		&t.ID, &t.Time, &t.Symbol, &t.Side, &t.Qty,
		&t.Price, &t.Notional, &t.OrderID, &t.Reason, &t.RealizedPnL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.TradeRecord{}, fmt.Errorf("postgres: trade %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.TradeRecord{}, fmt.Errorf("postgres: get trade %d: %w", id, err)
	}
	return t, nil
}
