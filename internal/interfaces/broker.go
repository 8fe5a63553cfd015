package interfaces

import (
	"context"
	"errors"

	"crypto-trading-bot/internal/types"
)

// ErrExecutionFailed indicates the executor failed or the order did not fill
// after an approval. Recoverable: no state is mutated and the daily counter
// is untouched.
var ErrExecutionFailed = errors.New("order execution failed")

type Broker interface {
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}
