package engine

import (
	"testing"
	"time"

	"crypto-trading-bot/internal/types"
)

func heldPosition(entry float64) types.Position {
	return types.Position{Symbol: "BTC-USD", Qty: 0.01, AvgEntryPrice: entry, OpenedAt: time.Now()}
}

func TestExitMonitorFlatShortCircuits(t *testing.T) {
	em := NewExitMonitor(testLimits())

	// A garbage entry price on the sentinel must not matter: the quantity
	// check comes first.
	_, ok := em.Check(types.Position{Symbol: "BTC-USD"}, 1)
	if ok {
		t.Error("Expected no exit for a flat position")
	}
}

func TestExitMonitorStopLoss(t *testing.T) {
	em := NewExitMonitor(testLimits())

	dec, ok := em.Check(heldPosition(40000), 37500) // -6.25%
	if !ok {
		t.Fatal("Expected stop-loss exit")
	}
	if dec.Action != types.ActionForcedExit {
		t.Errorf("Expected FORCED_EXIT, got %s", dec.Action)
	}
	if dec.Reason != types.ReasonStopLossTriggered {
		t.Errorf("Expected STOP_LOSS_TRIGGERED, got %s", dec.Reason)
	}
	if dec.Side != types.SideSell {
		t.Errorf("Expected side SELL, got %s", dec.Side)
	}
}

func TestExitMonitorStopLossExactThreshold(t *testing.T) {
	em := NewExitMonitor(testLimits())

	// Exactly -5% triggers.
	dec, ok := em.Check(heldPosition(40000), 38000)
	if !ok {
		t.Fatal("Expected exit at exactly the stop-loss threshold")
	}
	if dec.Reason != types.ReasonStopLossTriggered {
		t.Errorf("Expected STOP_LOSS_TRIGGERED, got %s", dec.Reason)
	}
}

func TestExitMonitorTakeProfit(t *testing.T) {
	em := NewExitMonitor(testLimits())

	dec, ok := em.Check(heldPosition(40000), 44000) // +10%
	if !ok {
		t.Fatal("Expected take-profit exit")
	}
	if dec.Reason != types.ReasonTakeProfitTriggered {
		t.Errorf("Expected TAKE_PROFIT_TRIGGERED, got %s", dec.Reason)
	}
	if dec.Side != types.SideSell {
		t.Errorf("Expected side SELL, got %s", dec.Side)
	}
}

func TestExitMonitorInsideThresholds(t *testing.T) {
	em := NewExitMonitor(testLimits())

	for _, price := range []float64{38001, 40000, 41000, 43999} {
		if _, ok := em.Check(heldPosition(40000), price); ok {
			t.Errorf("Expected no exit at price %g", price)
		}
	}
}
