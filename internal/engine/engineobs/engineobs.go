package engineobs

import (
	"context"
	"time"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/trace"
	"crypto-trading-bot/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Tick(ctx context.Context, symbol string) (*types.TickResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Tick")
	defer span.End()

	start := time.Now()

	logger.Info(ctx, "Starting trading cycle",
		"symbol", symbol,
	)

	result, err := oe.engine.Tick(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Trading cycle failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Info(ctx, "Trading cycle completed",
		"symbol", symbol,
		"action", result.Decision.Action,
		"reason", result.Decision.Reason,
		"price", result.Price,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
