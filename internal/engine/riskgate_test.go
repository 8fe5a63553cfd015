package engine

import (
	"testing"
	"time"

	"crypto-trading-bot/internal/types"
)

func testLimits() types.RiskLimits {
	return types.RiskLimits{
		MaxPositionSize: 1000,
		StopLossPct:     5,
		TakeProfitPct:   10,
		MaxDailyTrades:  10,
	}
}

func buyCandidate(qty, price float64) types.Candidate {
	return types.Candidate{
		Symbol: "BTC-USD",
		Side:   types.SideBuy,
		Qty:    qty,
		Price:  price,
		Reason: types.ReasonEntrySignal,
	}
}

func openPosition() types.Position {
	return types.Position{Symbol: "BTC-USD", Qty: 0.01, AvgEntryPrice: 40000, OpenedAt: time.Now()}
}

func TestGateApprovesEntry(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())

	dec := rg.Evaluate(buyCandidate(0.01, 40000), types.Position{Symbol: "BTC-USD"}, counter)

	if dec.Action != types.ActionApprove {
		t.Fatalf("Expected APPROVE, got %s (%s)", dec.Action, dec.Reason)
	}
	if dec.Reason != types.ReasonEntrySignal {
		t.Errorf("Expected approval to carry the candidate reason, got %s", dec.Reason)
	}
	if dec.Side != types.SideBuy {
		t.Errorf("Expected side BUY, got %s", dec.Side)
	}
}

func TestGateRejectsBuyWhenOpen(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())

	dec := rg.Evaluate(buyCandidate(0.01, 40000), openPosition(), counter)

	if dec.Action != types.ActionReject {
		t.Fatalf("Expected REJECT, got %s", dec.Action)
	}
	if dec.Reason != types.ReasonPositionAlreadyOpen {
		t.Errorf("Expected POSITION_ALREADY_OPEN, got %s", dec.Reason)
	}
}

func TestGateRejectsSellWhenFlat(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())

	cand := types.Candidate{Symbol: "BTC-USD", Side: types.SideSell, Qty: 0.01, Price: 40000}
	dec := rg.Evaluate(cand, types.Position{Symbol: "BTC-USD"}, counter)

	if dec.Reason != types.ReasonNoPositionToSell {
		t.Errorf("Expected NO_POSITION_TO_SELL, got %s", dec.Reason)
	}
}

func TestGateRejectsAtDailyLimit(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())
	for i := 0; i < 10; i++ {
		counter = counter.Record()
	}

	dec := rg.Evaluate(buyCandidate(0.001, 40000), types.Position{Symbol: "BTC-USD"}, counter)

	if dec.Reason != types.ReasonDailyLimitReached {
		t.Errorf("Expected DAILY_LIMIT_REACHED at the ceiling, got %s", dec.Reason)
	}
}

func TestGateAllowsOneBelowDailyLimit(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())
	for i := 0; i < 9; i++ {
		counter = counter.Record()
	}

	dec := rg.Evaluate(buyCandidate(0.001, 40000), types.Position{Symbol: "BTC-USD"}, counter)

	if dec.Action != types.ActionApprove {
		t.Errorf("Expected APPROVE one below the ceiling, got %s (%s)", dec.Action, dec.Reason)
	}
}

func TestGateRejectsOversizedNotional(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())

	// 0.03 * 40000 = 1200 > 1000
	dec := rg.Evaluate(buyCandidate(0.03, 40000), types.Position{Symbol: "BTC-USD"}, counter)

	if dec.Reason != types.ReasonPositionSizeExceeded {
		t.Errorf("Expected POSITION_SIZE_EXCEEDED, got %s", dec.Reason)
	}
}

func TestGateAllowsExactNotionalCap(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())

	// 0.025 * 40000 = 1000, not above the cap
	dec := rg.Evaluate(buyCandidate(0.025, 40000), types.Position{Symbol: "BTC-USD"}, counter)

	if dec.Action != types.ActionApprove {
		t.Errorf("Expected APPROVE at exactly the cap, got %s (%s)", dec.Action, dec.Reason)
	}
}

func TestGateRuleOrder(t *testing.T) {
	rg := NewRiskGate(testLimits())

	// Everything is wrong at once: open position, counter at the limit and an
	// oversized buy. The position check must win.
	counter := NewDailyTradeCounter(time.Now())
	for i := 0; i < 10; i++ {
		counter = counter.Record()
	}

	dec := rg.Evaluate(buyCandidate(1, 40000), openPosition(), counter)
	if dec.Reason != types.ReasonPositionAlreadyOpen {
		t.Errorf("Expected POSITION_ALREADY_OPEN to win, got %s", dec.Reason)
	}

	// Flat but at the limit with an oversized buy: the daily limit wins over
	// the size check.
	dec = rg.Evaluate(buyCandidate(1, 40000), types.Position{Symbol: "BTC-USD"}, counter)
	if dec.Reason != types.ReasonDailyLimitReached {
		t.Errorf("Expected DAILY_LIMIT_REACHED before size check, got %s", dec.Reason)
	}
}

func TestGateSellNotSizeChecked(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())

	// An exit can be worth more than the entry cap; the cap only guards
	// entries.
	cand := types.Candidate{Symbol: "BTC-USD", Side: types.SideSell, Qty: 1, Price: 40000}
	pos := types.Position{Symbol: "BTC-USD", Qty: 1, AvgEntryPrice: 900, OpenedAt: time.Now()}

	dec := rg.Evaluate(cand, pos, counter)
	if dec.Action != types.ActionApprove {
		t.Errorf("Expected SELL above cap to be approved, got %s (%s)", dec.Action, dec.Reason)
	}
}

func TestGateIsPure(t *testing.T) {
	rg := NewRiskGate(testLimits())
	counter := NewDailyTradeCounter(time.Now())
	cand := buyCandidate(0.01, 40000)
	pos := types.Position{Symbol: "BTC-USD"}

	first := rg.Evaluate(cand, pos, counter)
	second := rg.Evaluate(cand, pos, counter)

	if first != second {
		t.Errorf("Expected identical decisions for identical inputs, got %+v then %+v", first, second)
	}
	if counter.Count != 0 {
		t.Errorf("Expected evaluation to leave the counter untouched, got %d", counter.Count)
	}
}
