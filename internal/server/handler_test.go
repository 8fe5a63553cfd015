package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crypto-trading-bot/internal/db/postgres"
	"crypto-trading-bot/internal/types"
)

type fakeTradeStore struct {
	trades []types.TradeRecord
}

func (s *fakeTradeStore) RecentTrades(ctx context.Context, limit int, symbol string) ([]types.TradeRecord, error) {
	var out []types.TradeRecord
	for _, t := range s.trades {
		if symbol != "" && t.Symbol != symbol {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeTradeStore) TradeByID(ctx context.Context, id int64) (types.TradeRecord, error) {
	for _, t := range s.trades {
		if t.ID == id {
			return t, nil
		}
	}
	return types.TradeRecord{}, fmt.Errorf("trade %d: %w", id, postgres.ErrNotFound)
}

type fakePositionStore struct {
	positions []types.Position
}

func (s *fakePositionStore) OpenPositions(ctx context.Context) ([]types.Position, error) {
	return s.positions, nil
}

type fakeStatsStore struct {
	stats types.DailyStats
}

func (s *fakeStatsStore) UpsertDailyStats(ctx context.Context, stats types.DailyStats) error {
	s.stats = stats
	return nil
}

func (s *fakeStatsStore) DailyStats(ctx context.Context, day time.Time) (types.DailyStats, error) {
	return s.stats, nil
}

func newTestMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/trades", h.Trades)
	mux.HandleFunc("GET /api/trades/{id}", h.TradeByID)
	mux.HandleFunc("GET /api/positions", h.Positions)
	mux.HandleFunc("GET /api/stats/daily", h.DailyStats)
	mux.HandleFunc("GET /api/status", h.Status)
	return mux
}

func seededHandler() *Handler {
	trades := &fakeTradeStore{trades: []types.TradeRecord{
		{ID: 1, Symbol: "BTC-USD", Side: types.SideBuy, Qty: 0.01, Price: 40000},
		{ID: 2, Symbol: "BTC-USD", Side: types.SideSell, Qty: 0.01, Price: 44000, RealizedPnL: 40},
		{ID: 3, Symbol: "ETH-USD", Side: types.SideBuy, Qty: 0.1, Price: 3000},
	}}
	positions := &fakePositionStore{positions: []types.Position{
		{Symbol: "BTC-USD", Qty: 0.01, AvgEntryPrice: 40000},
	}}
	stats := &fakeStatsStore{stats: types.DailyStats{Trades: 2, Wins: 1, RealizedPnL: 40}}
	status := func() types.EngineStatus {
		return types.EngineStatus{Symbol: "BTC-USD", Mode: "DRY_RUN", TradesToday: 2, MaxDailyTrades: 10, LastPrice: 44000}
	}
	return NewHandler(trades, positions, stats, status)
}

func get(t *testing.T, mux *http.ServeMux, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var body map[string]any
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return rr, body
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, body := get(t, mux, "/api/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
	if body["database"] != true {
		t.Errorf("Expected database true, got %v", body["database"])
	}
}

func TestTradesEndpoint(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, body := get(t, mux, "/api/trades")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if body["count"] != float64(3) {
		t.Errorf("Expected 3 trades, got %v", body["count"])
	}
}

func TestTradesSymbolFilter(t *testing.T) {
	mux := newTestMux(seededHandler())
	_, body := get(t, mux, "/api/trades?symbol=ETH-USD")

	if body["count"] != float64(1) {
		t.Errorf("Expected 1 ETH trade, got %v", body["count"])
	}
}

func TestTradesBadLimit(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, _ := get(t, mux, "/api/trades?limit=0")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for limit=0, got %d", rr.Code)
	}
}

func TestTradeByID(t *testing.T) {
	mux := newTestMux(seededHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/trades/2", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var trade types.TradeRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &trade); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if trade.ID != 2 || trade.RealizedPnL != 40 {
		t.Errorf("Expected trade 2 with pnl 40, got %+v", trade)
	}
}

func TestTradeByIDNotFound(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, _ := get(t, mux, "/api/trades/99")

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

func TestTradeByIDInvalid(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, _ := get(t, mux, "/api/trades/abc")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric id, got %d", rr.Code)
	}
}

func TestPositionsEndpoint(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, body := get(t, mux, "/api/positions")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if body["count"] != float64(1) {
		t.Errorf("Expected 1 position, got %v", body["count"])
	}
}

func TestDailyStatsEndpoint(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, body := get(t, mux, "/api/stats/daily")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if body["trades"] != float64(2) {
		t.Errorf("Expected 2 trades in stats, got %v", body["trades"])
	}
}

func TestDailyStatsBadDate(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, _ := get(t, mux, "/api/stats/daily?date=01-06-2025")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad date, got %d", rr.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	mux := newTestMux(seededHandler())
	rr, body := get(t, mux, "/api/status")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if body["mode"] != "DRY_RUN" {
		t.Errorf("Expected mode DRY_RUN, got %v", body["mode"])
	}
	if body["last_price"] != float64(44000) {
		t.Errorf("Expected last price 44000, got %v", body["last_price"])
	}
}

func TestEndpointsWithoutDatabase(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	mux := newTestMux(h)

	for _, path := range []string{"/api/trades", "/api/positions", "/api/stats/daily", "/api/status"} {
		rr, _ := get(t, mux, path)
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503 for %s without database, got %d", path, rr.Code)
		}
	}

	rr, _ := get(t, mux, "/api/health")
	if rr.Code != http.StatusOK {
		t.Errorf("Expected health to stay 200 without database, got %d", rr.Code)
	}
}
