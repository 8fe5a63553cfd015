package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-trading-bot/internal/types"
)

// PositionStore implements interfaces.PositionStore using PostgreSQL.
type PositionStore struct {
	pool *pgxpool.Pool
}

func NewPositionStore(pool *pgxpool.Pool) *PositionStore {
	return &PositionStore{pool: pool}
}

// Upsert writes the resulting position after a fill. A zero-quantity
// position is kept as a row so closed symbols remain visible with qty 0.
func (s *PositionStore) Upsert(ctx context.Context, p types.Position) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO positions (symbol, quantity, average_entry_price, opened_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (symbol) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_entry_price = EXCLUDED.average_entry_price,
			opened_at = EXCLUDED.opened_at,
			updated_at = now()`,
		p.Symbol, p.Qty, p.AvgEntryPrice, nullableTime(p.OpenedAt),
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert position %s: %w", p.Symbol, err)
	}
	return nil
}

// OpenPositions lists positions with a non-zero quantity.
func (s *PositionStore) OpenPositions(ctx context.Context) ([]types.Position, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT symbol, quantity, average_entry_price, COALESCE(opened_at, 'epoch'::timestamptz)
		FROM positions WHERE quantity > 0 ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list open positions: %w", err)
	}
	defer rows.Close()

	var positions []types.Position
	for rows.Next() {
		var p types.Position
		if err := rows.Scan(&p.Symbol, &p.Qty, &p.AvgEntryPrice, &p.OpenedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
