package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/types"
)

// Recorder is the engine's persistence sink: every fetched price goes to
// price_history, every confirmed fill becomes a trades row plus a positions
// upsert.
type Recorder struct {
	trades    *TradeStore
	positions *PositionStore
	prices    *PriceStore
}

func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{
		trades:    NewTradeStore(pool),
		positions: NewPositionStore(pool),
		prices:    NewPriceStore(pool),
	}
}

var _ interfaces.Recorder = (*Recorder)(nil)

func (r *Recorder) RecordPrice(ctx context.Context, symbol string, price float64, ts time.Time) error {
	return r.prices.Insert(ctx, symbol, price, ts)
}

func (r *Recorder) RecordFill(ctx context.Context, fill types.Fill, resulting types.Position, reason types.Reason, realizedPnL float64) error {
	rec := types.TradeRecord{
		Time:        fill.Time,
		Symbol:      fill.Symbol,
		Side:        fill.Side,
		Qty:         fill.Qty,
		Price:       fill.Price,
		Notional:    fill.Qty * fill.Price,
		OrderID:     fill.OrderID,
		Reason:      reason,
		RealizedPnL: realizedPnL,
	}
	if err := r.trades.Insert(ctx, rec); err != nil {
		return err
	}
	if resulting.Symbol == "" {
		resulting.Symbol = fill.Symbol
	}
	if err := r.positions.Upsert(ctx, resulting); err != nil {
		return fmt.Errorf("record fill %s: %w", fill.OrderID, err)
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
