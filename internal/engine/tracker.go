package engine

import (
	"fmt"
	"time"

	"crypto-trading-bot/internal/types"
)

// qtyEpsilon is the tolerance below which a residual quantity counts as a
// fully closed position.
const qtyEpsilon = 1e-9

// NoPositionError reports a SELL fill applied to a symbol with no open
// position. The risk gate rejects such trades before execution, so reaching
// this error means a caller skipped the gate.
type NoPositionError struct {
	Symbol string
}

func (e *NoPositionError) Error() string {
	return fmt.Sprintf("no open position for %s", e.Symbol)
}

// PositionTracker holds the current open position per symbol. It is mutated
// only by confirmed fills and has a single writer, so no locking.
type PositionTracker struct {
	positions map[string]types.Position
}

func NewPositionTracker() *PositionTracker {
	return &PositionTracker{positions: make(map[string]types.Position)}
}

// Current returns the position snapshot for a symbol, or the zero-quantity
// sentinel when none exists. Pure read.
func (pt *PositionTracker) Current(symbol string) types.Position {
	if p, ok := pt.positions[symbol]; ok {
		return p
	}
	return types.Position{Symbol: symbol}
}

// ApplyFill folds a confirmed fill into the tracked position and returns the
// resulting snapshot.
//
// BUY on a flat position creates it; BUY on an open position recomputes the
// quantity-weighted average entry price. SELL decrements the quantity and
// clears the position to the sentinel once exhausted — the entry price is
// forgotten at that point.
func (pt *PositionTracker) ApplyFill(symbol string, side types.Side, qty, price float64, ts time.Time) (types.Position, error) {
	p := pt.Current(symbol)

	switch side {
	case types.SideBuy:
		if !p.Open() {
			p = types.Position{Symbol: symbol, Qty: qty, AvgEntryPrice: price, OpenedAt: ts}
		} else {
			total := p.AvgEntryPrice*p.Qty + price*qty
			p.Qty += qty
			p.AvgEntryPrice = total / p.Qty
		}
	case types.SideSell:
		if !p.Open() {
			return types.Position{Symbol: symbol}, &NoPositionError{Symbol: symbol}
		}
		p.Qty -= qty
		if p.Qty <= qtyEpsilon {
			delete(pt.positions, symbol)
			return types.Position{Symbol: symbol}, nil
		}
	default:
		return p, fmt.Errorf("unsupported fill side %q", side)
	}

	pt.positions[symbol] = p
	return p, nil
}
