// Package robinhood places crypto orders. In DRY_RUN mode orders are filled
// on paper at the quoted price; in LIVE mode they are posted to the broker's
// crypto order endpoint.
package robinhood

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"crypto-trading-bot/internal/api"
	"crypto-trading-bot/internal/interfaces"
	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/types"
)

const (
	ModeDryRun = "DRY_RUN"
	ModeLive   = "LIVE"
)

// Params configures the broker.
type Params struct {
	Mode    string
	BaseURL string
	Token   string
}

type Broker struct {
	params Params
	client *api.Client
}

func New(params Params) *Broker {
	b := &Broker{params: params}
	if params.Mode == ModeLive {
		b.client = api.NewClient(
			api.WithBaseURL(params.BaseURL),
			api.WithTimeout(15*time.Second),
			api.WithHeader("Authorization", "Bearer "+params.Token),
			api.WithLogging(true),
		)
	}
	return b
}

var _ interfaces.Broker = (*Broker)(nil)

// PlaceOrder routes to the paper or live path based on the configured mode.
func (b *Broker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if req.Qty <= 0 {
		return types.OrderResp{}, fmt.Errorf("order qty must be positive, got %g: %w", req.Qty, interfaces.ErrExecutionFailed)
	}
	if b.params.Mode == ModeLive {
		return b.placeLive(ctx, req)
	}
	return b.placePaper(ctx, req)
}

// placePaper simulates an immediate full fill at the quoted price.
func (b *Broker) placePaper(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	orderID := "paper-" + uuid.NewString()
	logger.Info(ctx, "DRY RUN: order filled on paper",
		"symbol", req.Symbol, "side", req.Side, "qty", req.Qty, "price", req.Price, "order_id", orderID)
	return types.OrderResp{
		OrderID:   orderID,
		Filled:    true,
		FillPrice: req.Price,
	}, nil
}

type orderRequest struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
	Type     string  `json:"type"`
	Ref      string  `json:"client_order_id"`
}

type orderResponse struct {
	ID        string  `json:"id"`
	State     string  `json:"state"`
	AvgPrice  float64 `json:"average_price,string"`
	RejectMsg string  `json:"reject_reason"`
}

func (b *Broker) placeLive(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	body := orderRequest{
		Symbol:   req.Symbol,
		Side:     strings.ToLower(string(req.Side)),
		Quantity: req.Qty,
		Type:     "market",
		Ref:      uuid.NewString(),
	}

	resp, err := b.client.POST(ctx, "/api/v1/crypto/trading/orders/", body)
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("crypto order POST: %w: %v", interfaces.ErrExecutionFailed, err)
	}

	var parsed orderResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return types.OrderResp{}, fmt.Errorf("crypto order response: %w: %v", interfaces.ErrExecutionFailed, err)
	}

	switch parsed.State {
	case "filled", "confirmed":
		return types.OrderResp{
			OrderID:   parsed.ID,
			Filled:    true,
			FillPrice: parsed.AvgPrice,
		}, nil
	default:
		return types.OrderResp{OrderID: parsed.ID}, fmt.Errorf(
			"crypto order %s state %q (%s): %w", parsed.ID, parsed.State, parsed.RejectMsg, interfaces.ErrExecutionFailed)
	}
}
