package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"crypto-trading-bot/internal/db/postgres"
	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/types"
)

// StatusFunc reports the engine's current state for /api/status.
type StatusFunc func() types.EngineStatus

// Handler serves the API endpoints. The stores may be nil when the bot runs
// without a database; the affected endpoints then answer 503.
type Handler struct {
	trades    interfaces.TradeStore
	positions interfaces.PositionStore
	stats     interfaces.StatsStore
	status    StatusFunc
	started   time.Time
}

func NewHandler(trades interfaces.TradeStore, positions interfaces.PositionStore, stats interfaces.StatsStore, status StatusFunc) *Handler {
	return &Handler{
		trades:    trades,
		positions: positions,
		stats:     stats,
		status:    status,
		started:   time.Now(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"database":       h.trades != nil,
	})
}

func (h *Handler) Trades(w http.ResponseWriter, r *http.Request) {
	if h.trades == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be 1-1000")
			return
		}
		limit = n
	}
	symbol := r.URL.Query().Get("symbol")

	trades, err := h.trades.RecentTrades(r.Context(), limit, symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}
	if trades == nil {
		trades = []types.TradeRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trades": trades, "count": len(trades)})
}

func (h *Handler) TradeByID(w http.ResponseWriter, r *http.Request) {
	if h.trades == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return
	}

	trade, err := h.trades.TradeByID(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trade not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get trade")
		return
	}
	writeJSON(w, http.StatusOK, trade)
}

func (h *Handler) Positions(w http.ResponseWriter, r *http.Request) {
	if h.positions == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	positions, err := h.positions.OpenPositions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list positions")
		return
	}
	if positions == nil {
		positions = []types.Position{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": positions, "count": len(positions)})
}

func (h *Handler) DailyStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	day := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	stats, err := h.stats.DailyStats(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get daily stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h.status == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not running")
		return
	}
	writeJSON(w, http.StatusOK, h.status())
}
