// Package server exposes the bot's read-only HTTP API: health, trades,
// positions, daily stats, engine status and Prometheus metrics. There is no
// authentication; the listener is meant to stay on a private interface.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crypto-trading-bot/internal/logger"
)

// Server is the read-only HTTP API for the bot.
type Server struct {
	httpServer *http.Server
}

// New creates a Server with all routes registered on a ServeMux.
func New(addr string, h *Handler) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/trades", h.Trades)
	mux.HandleFunc("GET /api/trades/{id}", h.TradeByID)
	mux.HandleFunc("GET /api/positions", h.Positions)
	mux.HandleFunc("GET /api/stats/daily", h.DailyStats)
	mux.HandleFunc("GET /api/status", h.Status)
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{httpServer: srv}
}

// Start begins listening. It blocks until the server errors or is shut down.
func (s *Server) Start() error {
	logger.Info(context.Background(), "API server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: listen: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info(ctx, "API server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("api server: shutdown: %w", err)
	}
	return nil
}
