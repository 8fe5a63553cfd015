package types

import "time"

// Side is the direction of a candidate trade or a confirmed fill.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	SideHold Side = "HOLD"
)

// Action is the outcome of a risk evaluation.
type Action string

const (
	ActionApprove    Action = "APPROVE"
	ActionReject     Action = "REJECT"
	ActionForcedExit Action = "FORCED_EXIT"
)

// Reason is a stable code explaining a decision, suitable for alerting and
// dashboards.
type Reason string

const (
	ReasonEntrySignal          Reason = "ENTRY_SIGNAL"
	ReasonPositionAlreadyOpen  Reason = "POSITION_ALREADY_OPEN"
	ReasonNoPositionToSell     Reason = "NO_POSITION_TO_SELL"
	ReasonDailyLimitReached    Reason = "DAILY_LIMIT_REACHED"
	ReasonPositionSizeExceeded Reason = "POSITION_SIZE_EXCEEDED"
	ReasonStopLossTriggered    Reason = "STOP_LOSS_TRIGGERED"
	ReasonTakeProfitTriggered  Reason = "TAKE_PROFIT_TRIGGERED"
)

// Candidate is a proposed trade awaiting risk evaluation.
type Candidate struct {
	Symbol string
	Side   Side
	Qty    float64
	Price  float64
	Reason Reason
}

// Notional is the dollar value of the candidate order.
func (c Candidate) Notional() float64 { return c.Qty * c.Price }

// TradeDecision is the output of the risk gate and the exit monitor.
type TradeDecision struct {
	Action Action `json:"action"`
	Reason Reason `json:"reason"`
	Side   Side   `json:"side"`
}

// Position is the currently held (or absent) holding for one symbol.
// Qty == 0 is the "no position" sentinel; AvgEntryPrice is undefined then.
type Position struct {
	Symbol        string    `json:"symbol"`
	Qty           float64   `json:"quantity"`
	AvgEntryPrice float64   `json:"average_entry_price"`
	OpenedAt      time.Time `json:"opened_at"`
}

// Open reports whether a logical position exists.
func (p Position) Open() bool { return p.Qty > 0 }

// RiskLimits is the immutable risk configuration for one trading session.
type RiskLimits struct {
	MaxPositionSize float64 // notional ceiling for entry orders
	StopLossPct     float64 // drawdown from entry that forces an exit
	TakeProfitPct   float64 // gain from entry that forces an exit
	MaxDailyTrades  int     // ceiling on executed fills per calendar day
}

// Fill is a confirmed execution at a specific price and quantity.
type Fill struct {
	Symbol  string    `json:"symbol"`
	Side    Side      `json:"side"`
	Qty     float64   `json:"quantity"`
	Price   float64   `json:"price"`
	OrderID string    `json:"order_id"`
	Time    time.Time `json:"time"`
}

type OrderReq struct {
	Symbol string
	Side   Side
	Qty    float64
	Price  float64 // latest quote, used as the paper fill price
	Tag    string
}

type OrderResp struct {
	OrderID   string  `json:"order_id"`
	Filled    bool    `json:"filled"`
	FillPrice float64 `json:"fill_price"`
}

// TickResult summarizes one polling cycle.
type TickResult struct {
	Symbol   string        `json:"symbol"`
	Price    float64       `json:"price"`
	Decision TradeDecision `json:"decision"`
	Fill     *Fill         `json:"fill,omitempty"`
	Time     int64         `json:"time"`
}

// TradeRecord is the durable row forwarded to the persistence sink after a
// confirmed fill.
type TradeRecord struct {
	ID          int64     `json:"id"`
	Time        time.Time `json:"timestamp"`
	Symbol      string    `json:"symbol"`
	Side        Side      `json:"side"`
	Qty         float64   `json:"quantity"`
	Price       float64   `json:"price"`
	Notional    float64   `json:"total_value"`
	OrderID     string    `json:"order_id"`
	Reason      Reason    `json:"reason"`
	RealizedPnL float64   `json:"realized_pnl"`
}

// DailyStats aggregates one trading day.
type DailyStats struct {
	Day         time.Time `json:"date"`
	Trades      int       `json:"trades"`
	Wins        int       `json:"winning_trades"`
	Losses      int       `json:"losing_trades"`
	RealizedPnL float64   `json:"realized_pnl"`
}

// EngineStatus is a point-in-time snapshot of the engine state for the
// status API.
type EngineStatus struct {
	Symbol         string   `json:"symbol"`
	Mode           string   `json:"mode"`
	Position       Position `json:"position"`
	TradesToday    int      `json:"trades_today"`
	MaxDailyTrades int      `json:"max_daily_trades"`
	LastPrice      float64  `json:"last_price"`
}
