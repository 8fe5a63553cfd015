package interfaces

import (
	"context"

	"crypto-trading-bot/internal/types"
)

type Engine interface {
	Tick(ctx context.Context, symbol string) (*types.TickResult, error)
}
