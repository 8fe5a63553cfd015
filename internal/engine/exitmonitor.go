package engine

import "crypto-trading-bot/internal/types"

// ExitMonitor watches an open position against the live price and forces an
// exit once the stop-loss or take-profit threshold is crossed. Forced exits
// bypass the entry risk checks but still require an open position, which the
// flat short-circuit guarantees.
type ExitMonitor struct {
	limits types.RiskLimits
}

func NewExitMonitor(limits types.RiskLimits) *ExitMonitor {
	return &ExitMonitor{limits: limits}
}

// Check returns a forced-exit SELL decision when a threshold is met; ok is
// false when there is nothing to do (flat position, or price inside both
// thresholds). Stop-loss is evaluated before take-profit as the more
// conservative outcome.
func (em *ExitMonitor) Check(pos types.Position, price float64) (types.TradeDecision, bool) {
	if !pos.Open() {
		return types.TradeDecision{}, false
	}

	pct := (price - pos.AvgEntryPrice) / pos.AvgEntryPrice * 100.0

	if pct <= -em.limits.StopLossPct {
		return types.TradeDecision{
			Action: types.ActionForcedExit,
			Reason: types.ReasonStopLossTriggered,
			Side:   types.SideSell,
		}, true
	}
	if pct >= em.limits.TakeProfitPct {
		return types.TradeDecision{
			Action: types.ActionForcedExit,
			Reason: types.ReasonTakeProfitTriggered,
			Side:   types.SideSell,
		}, true
	}
	return types.TradeDecision{}, false
}
