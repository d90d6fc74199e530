package session

import (
	"context"

	"github.com/xraph/gymledger/id"
)

type Store interface {
	// Create assigns the next monotonic id to s and stores it.
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, sessionID int64) (*Session, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]Summary, error)
	AddParticipant(ctx context.Context, sessionID int64, account id.AccountID) error
	Participants(ctx context.Context, sessionID int64) ([]id.AccountID, error)
}
