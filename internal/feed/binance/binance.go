// Package binance fetches spot prices from the Binance public REST API.
package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"crypto-trading-bot/internal/api"
	"crypto-trading-bot/internal/interfaces"
)

const defaultBaseURL = "https://api.binance.com"

// Feed is a PriceFeed backed by GET /api/v3/ticker/price.
type Feed struct {
	client *api.Client
}

// New builds a feed against the given base URL (empty selects the public
// Binance endpoint).
func New(baseURL string) *Feed {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Feed{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(10*time.Second),
			api.WithLogging(true),
		),
	}
}

var _ interfaces.PriceFeed = (*Feed)(nil)

// Pair maps a USD-quoted symbol to the Binance USDT spot pair, so "BTC-USD"
// and "BTCUSD" both resolve to "BTCUSDT". Symbols already quoted in USDT
// pass through unchanged.
func Pair(symbol string) string {
	s := strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
	s = strings.ReplaceAll(s, "/", "")
	if strings.HasSuffix(s, "USDT") {
		return s
	}
	if strings.HasSuffix(s, "USD") {
		return s + "T"
	}
	return s + "USDT"
}

type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Price returns the latest traded price for the symbol in USD. Binance
// returns the price as a decimal string.
func (f *Feed) Price(ctx context.Context, symbol string) (float64, error) {
	pair := Pair(symbol)
	resp, err := f.client.GET(ctx, "/api/v3/ticker/price?symbol="+pair)
	if err != nil {
		return 0, fmt.Errorf("binance ticker %s: %w: %v", pair, interfaces.ErrPriceUnavailable, err)
	}

	var ticker tickerResponse
	if err := resp.ParseJSON(&ticker); err != nil {
		return 0, fmt.Errorf("binance ticker %s: %w: %v", pair, interfaces.ErrPriceUnavailable, err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("binance ticker %s: bad price %q: %w", pair, ticker.Price, interfaces.ErrPriceUnavailable)
	}
	if price <= 0 {
		return 0, fmt.Errorf("binance ticker %s: non-positive price: %w", pair, interfaces.ErrPriceUnavailable)
	}
	return price, nil
}
