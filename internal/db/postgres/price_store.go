package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceStore records every fetched quote into price_history.
type PriceStore struct {
	pool *pgxpool.Pool
}

func NewPriceStore(pool *pgxpool.Pool) *PriceStore {
	return &PriceStore{pool: pool}
}

func (s *PriceStore) Insert(ctx context.Context, symbol string, price float64, ts time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO price_history (timestamp, symbol, price) VALUES ($1, $2, $3)`,
		ts, symbol, price,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert price %s: %w", symbol, err)
	}
	return nil
}

// DeleteBefore trims history rows older than the given time. Returns the
// number deleted.
func (s *PriceStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM price_history WHERE timestamp < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete price history before: %w", err)
	}
	return tag.RowsAffected(), nil
}
