package challenge

import "context"

type Store interface {
	// Create assigns the next monotonic id to c and stores it.
	Create(ctx context.Context, c *Challenge) error
	Get(ctx context.Context, challengeID int64) (*Challenge, error)
	Count(ctx context.Context) (int64, error)
}
