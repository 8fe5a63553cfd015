package interfaces

import (
	"context"
	"errors"
)

// ErrPriceUnavailable indicates the price feed failed or returned no usable
// data. Cycles abort with no state change when this is returned; the next
// poll retries.
var ErrPriceUnavailable = errors.New("price unavailable")

type PriceFeed interface {
	Price(ctx context.Context, symbol string) (float64, error)
}
