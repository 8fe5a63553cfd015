package engine

import "crypto-trading-bot/internal/types"

// RiskGate approves or rejects candidate trades against the configured
// limits. Evaluate is a pure function over its inputs — no I/O, no state
// mutation — so an approval never implies a fill: callers apply fills and
// count trades only after the executor confirms.
type RiskGate struct {
	limits types.RiskLimits
}

func NewRiskGate(limits types.RiskLimits) *RiskGate {
	return &RiskGate{limits: limits}
}

// Evaluate checks a candidate against the current position and the daily
// counter. The counter must already be rolled over to the current date.
//
// Rules run in a fixed order and the first match wins, which keeps
// rejections deterministic and debuggable:
//  1. BUY with an open position       -> POSITION_ALREADY_OPEN
//  2. SELL with no open position      -> NO_POSITION_TO_SELL
//  3. daily fill count at the ceiling -> DAILY_LIMIT_REACHED
//  4. BUY notional above the cap      -> POSITION_SIZE_EXCEEDED
func (rg *RiskGate) Evaluate(c types.Candidate, pos types.Position, counter DailyTradeCounter) types.TradeDecision {
	if c.Side == types.SideBuy && pos.Open() {
		return reject(c, types.ReasonPositionAlreadyOpen)
	}
	if c.Side == types.SideSell && !pos.Open() {
		return reject(c, types.ReasonNoPositionToSell)
	}
	if counter.Count >= rg.limits.MaxDailyTrades {
		return reject(c, types.ReasonDailyLimitReached)
	}
	if c.Side == types.SideBuy && c.Notional() > rg.limits.MaxPositionSize {
		return reject(c, types.ReasonPositionSizeExceeded)
	}
	return types.TradeDecision{Action: types.ActionApprove, Reason: c.Reason, Side: c.Side}
}

func reject(c types.Candidate, reason types.Reason) types.TradeDecision {
	return types.TradeDecision{Action: types.ActionReject, Reason: reason, Side: c.Side}
}
