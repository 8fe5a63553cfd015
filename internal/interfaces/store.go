package interfaces

import (
	"context"
	"time"

	"crypto-trading-bot/internal/types"
)

// Recorder is the persistence sink the engine forwards state to once a
// decision is finalized. Implementations own durability; the engine treats
// failures as non-fatal.
type Recorder interface {
	RecordPrice(ctx context.Context, symbol string, price float64, ts time.Time) error
	RecordFill(ctx context.Context, fill types.Fill, resulting types.Position, reason types.Reason, realizedPnL float64) error
}

// Alerter is the notification sink for decisions worth surfacing.
type Alerter interface {
	Notify(ctx context.Context, event, title, message string) error
}

type TradeStore interface {
	RecentTrades(ctx context.Context, limit int, symbol string) ([]types.TradeRecord, error)
	TradeByID(ctx context.Context, id int64) (types.TradeRecord, error)
}

type PositionStore interface {
	OpenPositions(ctx context.Context) ([]types.Position, error)
}

type StatsStore interface {
	UpsertDailyStats(ctx context.Context, stats types.DailyStats) error
	DailyStats(ctx context.Context, day time.Time) (types.DailyStats, error)
}

// Alert event types understood by the notifier filter.
const (
	AlertEventTrade = "trade"
	AlertEventRisk  = "risk"
	AlertEventExit  = "exit"
	AlertEventError = "error"
)
