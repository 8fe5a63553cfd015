package engine

import (
	"context"
	"fmt"
	"time"

	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/metrics"
	"crypto-trading-bot/internal/store"
	"crypto-trading-bot/internal/tradelog"
	"crypto-trading-bot/internal/types"
)

// Engine runs one risk-gated trade-decision cycle per Tick. It owns the
// position tracker, the risk gate, the exit monitor and the daily counter;
// ticks run to completion one at a time, so no internal locking.
type Engine struct {
	cfg     *store.Config
	feed    interfaces.PriceFeed
	brk     interfaces.Broker
	rec     interfaces.Recorder
	alerts  interfaces.Alerter
	tracker *PositionTracker
	gate    *RiskGate
	monitor *ExitMonitor
	counter DailyTradeCounter

	// lastEntry remembers the most recent entry price per symbol even after
	// the position is closed, feeding the dip re-entry rule.
	lastEntry map[string]float64
	// lastPrice is the most recent successfully fetched quote per symbol.
	lastPrice map[string]float64

	now func() time.Time
}

// New builds an engine from the config and its external collaborators.
// rec and alerts may be nil when persistence or alerting is disabled.
func New(cfg *store.Config, feed interfaces.PriceFeed, brk interfaces.Broker, rec interfaces.Recorder, alerts interfaces.Alerter) *Engine {
	limits := types.RiskLimits{
		MaxPositionSize: cfg.Risk.MaxPositionSize,
		StopLossPct:     cfg.Risk.StopLossPct,
		TakeProfitPct:   cfg.Risk.TakeProfitPct,
		MaxDailyTrades:  cfg.Risk.MaxDailyTrades,
	}
	return &Engine{
		cfg:       cfg,
		feed:      feed,
		brk:       brk,
		rec:       rec,
		alerts:    alerts,
		tracker:   NewPositionTracker(),
		gate:      NewRiskGate(limits),
		monitor:   NewExitMonitor(limits),
		counter:   NewDailyTradeCounter(time.Now()),
		lastEntry: make(map[string]float64),
		lastPrice: make(map[string]float64),
		now:       time.Now,
	}
}

var _ interfaces.Engine = (*Engine)(nil)

// Tick runs one polling cycle: price fetch, exit check, candidate proposal,
// risk evaluation, optional execution, state update. A price-feed failure
// aborts the cycle with no state mutation; an executor failure after an
// approval likewise leaves all state untouched.
func (e *Engine) Tick(ctx context.Context, symbol string) (*types.TickResult, error) {
	now := e.now()

	price, err := e.feed.Price(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Price fetch failed, aborting cycle", err, "symbol", symbol)
		return nil, fmt.Errorf("fetch price for %s: %w", symbol, err)
	}
	e.lastPrice[symbol] = price
	metrics.SetPrice(symbol, price)
	logger.Debug(ctx, "Price fetched", "symbol", symbol, "price", price)

	if e.rec != nil {
		if err := e.rec.RecordPrice(ctx, symbol, price, now); err != nil {
			logger.Warn(ctx, "Failed to record price history", "symbol", symbol, "error", err)
		}
	}

	e.counter = Rollover(e.counter, now)
	metrics.SetDailyTrades(e.counter.Count)
	pos := e.tracker.Current(symbol)

	res := &types.TickResult{Symbol: symbol, Price: price, Time: now.Unix()}

	// Exit conditions are checked before any new candidate is considered.
	if dec, ok := e.monitor.Check(pos, price); ok {
		pct := (price - pos.AvgEntryPrice) / pos.AvgEntryPrice * 100.0
		logger.Risk(ctx, symbol, string(dec.Reason),
			"current_price", price,
			"entry_price", pos.AvgEntryPrice,
			"position_qty", pos.Qty,
			"change_pct", pct,
		)
		metrics.ObserveExit(string(dec.Reason))
		metrics.ObserveDecision(string(dec.Action), string(dec.Reason))

		fill, err := e.execute(ctx, symbol, types.SideSell, pos.Qty, price, dec.Reason)
		if err != nil {
			e.alertError(ctx, symbol, dec.Reason, err)
			return nil, err
		}
		e.alert(ctx, interfaces.AlertEventExit, symbol, dec.Reason,
			fmt.Sprintf("%s: sold %g %s at %.2f (entry %.2f, %+.2f%%)",
				dec.Reason, fill.Qty, symbol, fill.Price, pos.AvgEntryPrice, pct))
		res.Decision = dec
		res.Fill = fill
		return res, nil
	}

	cand, ok := e.propose(symbol, pos, price)
	if !ok {
		logger.Debug(ctx, "No trade signal, holding", "symbol", symbol, "price", price)
		res.Decision = types.TradeDecision{Side: types.SideHold}
		return res, nil
	}

	dec := e.gate.Evaluate(cand, pos, e.counter)
	metrics.ObserveDecision(string(dec.Action), string(dec.Reason))
	logger.Decision(ctx, symbol, string(dec.Action), string(dec.Reason), string(dec.Side),
		"qty", cand.Qty, "price", cand.Price, "notional", cand.Notional())
	_ = tradelog.AppendDecision(tradelog.DecisionEntry{
		Symbol: symbol,
		Action: string(dec.Action),
		Reason: string(dec.Reason),
		Side:   string(dec.Side),
		Price:  price,
	})

	res.Decision = dec
	if dec.Action == types.ActionReject {
		logger.Risk(ctx, symbol, string(dec.Reason), "side", dec.Side, "qty", cand.Qty, "price", price)
		e.alert(ctx, interfaces.AlertEventRisk, symbol, dec.Reason,
			fmt.Sprintf("%s %s blocked: %s", dec.Side, symbol, dec.Reason))
		return res, nil
	}

	fill, err := e.execute(ctx, symbol, cand.Side, cand.Qty, price, cand.Reason)
	if err != nil {
		return nil, err
	}
	e.alert(ctx, interfaces.AlertEventTrade, symbol, cand.Reason,
		fmt.Sprintf("%s %g %s at %.2f", fill.Side, fill.Qty, symbol, fill.Price))
	res.Fill = fill
	return res, nil
}

// propose applies the entry rule: buy when flat and the price has dipped
// below the last known entry, or when the bot has never traded the symbol.
// Exits are owned by the monitor, so an open position always proposes HOLD.
func (e *Engine) propose(symbol string, pos types.Position, price float64) (types.Candidate, bool) {
	if pos.Open() {
		return types.Candidate{}, false
	}
	last := e.lastEntry[symbol]
	if last > 0 && price >= last*(1.0-e.cfg.Entry.DipPct/100.0) {
		return types.Candidate{}, false
	}
	return types.Candidate{
		Symbol: symbol,
		Side:   types.SideBuy,
		Qty:    e.cfg.Quantity,
		Price:  price,
		Reason: types.ReasonEntrySignal,
	}, true
}

// execute places the order and, only on a confirmed fill, applies the state
// mutation: position update, daily counter, trade log, persistence sink.
func (e *Engine) execute(ctx context.Context, symbol string, side types.Side, qty, price float64, reason types.Reason) (*types.Fill, error) {
	resp, err := e.brk.PlaceOrder(ctx, types.OrderReq{
		Symbol: symbol,
		Side:   side,
		Qty:    qty,
		Price:  price,
		Tag:    string(reason),
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Order placement failed", err,
			"symbol", symbol, "side", side, "qty", qty, "price", price)
		return nil, fmt.Errorf("place %s order for %s: %w", side, symbol, err)
	}
	if !resp.Filled {
		logger.Error(ctx, "Order not filled", "symbol", symbol, "side", side, "order_id", resp.OrderID)
		return nil, fmt.Errorf("place %s order for %s: %w", side, symbol, interfaces.ErrExecutionFailed)
	}

	fillPrice := resp.FillPrice
	if fillPrice <= 0 {
		fillPrice = price
	}
	now := e.now()

	// Realized P&L must be computed before the fill is applied — a full exit
	// forgets the entry price.
	var realized float64
	if side == types.SideSell {
		prev := e.tracker.Current(symbol)
		realized = (fillPrice - prev.AvgEntryPrice) * qty
	}

	newPos, err := e.tracker.ApplyFill(symbol, side, qty, fillPrice, now)
	if err != nil {
		return nil, err
	}
	e.counter = e.counter.Record()
	if side == types.SideBuy {
		e.lastEntry[symbol] = newPos.AvgEntryPrice
	}

	metrics.ObserveTrade(e.cfg.Mode, string(side))
	metrics.SetDailyTrades(e.counter.Count)
	metrics.SetPositionQty(symbol, newPos.Qty)
	logger.Trade(ctx, symbol, string(side), qty, fillPrice, resp.OrderID,
		"reason", reason,
		"realized_pnl", realized,
		"new_qty", newPos.Qty,
		"new_avg", newPos.AvgEntryPrice,
		"trades_today", e.counter.Count,
	)

	fill := &types.Fill{
		Symbol:  symbol,
		Side:    side,
		Qty:     qty,
		Price:   fillPrice,
		OrderID: resp.OrderID,
		Time:    now,
	}

	_ = tradelog.Append(tradelog.Entry{
		Symbol:      symbol,
		Side:        string(side),
		Qty:         qty,
		Price:       fillPrice,
		OrderID:     resp.OrderID,
		Reason:      string(reason),
		RealizedPnL: realized,
	})

	if e.rec != nil {
		if err := e.rec.RecordFill(ctx, *fill, newPos, reason, realized); err != nil {
			logger.Warn(ctx, "Failed to persist fill", "symbol", symbol, "order_id", resp.OrderID, "error", err)
		}
	}

	return fill, nil
}

// Status reports a snapshot of the engine state for the status API.
func (e *Engine) Status(symbol string) types.EngineStatus {
	counter := Rollover(e.counter, e.now())
	return types.EngineStatus{
		Symbol:         symbol,
		Mode:           e.cfg.Mode,
		Position:       e.tracker.Current(symbol),
		TradesToday:    counter.Count,
		MaxDailyTrades: e.cfg.Risk.MaxDailyTrades,
		LastPrice:      e.lastPrice[symbol],
	}
}

func (e *Engine) alert(ctx context.Context, event, symbol string, reason types.Reason, message string) {
	if e.alerts == nil {
		return
	}
	title := fmt.Sprintf("[%s] %s", symbol, reason)
	if err := e.alerts.Notify(ctx, event, title, message); err != nil {
		logger.Warn(ctx, "Alert delivery failed", "event", event, "symbol", symbol, "error", err)
	}
}

func (e *Engine) alertError(ctx context.Context, symbol string, reason types.Reason, err error) {
	if e.alerts == nil {
		return
	}
	title := fmt.Sprintf("[%s] forced exit failed", symbol)
	msg := fmt.Sprintf("%s: executor error, will retry next cycle: %v", reason, err)
	if nerr := e.alerts.Notify(ctx, interfaces.AlertEventError, title, msg); nerr != nil {
		logger.Warn(ctx, "Alert delivery failed", "event", interfaces.AlertEventError, "symbol", symbol, "error", nerr)
	}
}
