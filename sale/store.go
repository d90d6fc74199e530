package sale

import (
	"context"

	"github.com/xraph/gymledger/types"
)

type Store interface {
	Position(ctx context.Context) (Position, error)
	SetPrice(ctx context.Context, price types.Amount) error
	// RecordSale adds tokens to TotalIssued and payment to Collected.
	RecordSale(ctx context.Context, tokens, payment types.Amount) error
	// DrainProceeds zeroes Collected and returns what it held.
	DrainProceeds(ctx context.Context) (types.Amount, error)
}
