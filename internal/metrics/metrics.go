// Package metrics exposes Prometheus metrics the bot updates during
// operation:
//   - bot_decisions_total{action,reason} – risk decisions taken
//   - bot_trades_total{mode,side}        – confirmed fills (mode: DRY_RUN|LIVE)
//   - bot_exit_reasons_total{reason}     – forced exits by trigger
//   - bot_price_usd{symbol}              – latest fetched price (gauge)
//   - bot_position_qty{symbol}           – tracked position quantity (gauge)
//   - bot_daily_trades                   – fills counted toward today's limit
//
// Registered in init() and served by the API server at /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Risk decisions taken",
		},
		[]string{"action", "reason"},
	)

	mtxTrades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_trades_total",
			Help: "Confirmed fills",
		},
		[]string{"mode", "side"},
	)

	mtxExitReasons = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_exit_reasons_total",
			Help: "Forced exits split by trigger reason",
		},
		[]string{"reason"},
	)

	mtxPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bot_price_usd",
			Help: "Latest fetched price in USD",
		},
		[]string{"symbol"},
	)

	mtxPositionQty = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bot_position_qty",
			Help: "Tracked position quantity",
		},
		[]string{"symbol"},
	)

	mtxDailyTrades = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_daily_trades",
			Help: "Fills counted toward today's daily-trade limit",
		},
	)
)

func init() {
	prometheus.MustRegister(
		mtxDecisions,
		mtxTrades,
		mtxExitReasons,
		mtxPrice,
		mtxPositionQty,
		mtxDailyTrades,
	)
}

func ObserveDecision(action, reason string) {
	mtxDecisions.WithLabelValues(action, reason).Inc()
}

func ObserveTrade(mode, side string) {
	mtxTrades.WithLabelValues(mode, side).Inc()
}

func ObserveExit(reason string) {
	mtxExitReasons.WithLabelValues(reason).Inc()
}

func SetPrice(symbol string, price float64) {
	mtxPrice.WithLabelValues(symbol).Set(price)
}

func SetPositionQty(symbol string, qty float64) {
	mtxPositionQty.WithLabelValues(symbol).Set(qty)
}

func SetDailyTrades(n int) {
	mtxDailyTrades.Set(float64(n))
}
