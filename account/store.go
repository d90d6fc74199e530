package account

import (
	"context"
	"time"

	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/types"
)

// Store holds the balance ledger and per-account lifecycle state. Mint, Burn
// and Transfer are the only ways any balance changes; each must be atomic and
// Burn/Transfer must fail without effect when the source balance is short.
type Store interface {
	Get(ctx context.Context, account id.AccountID) (*Account, error)
	Mint(ctx context.Context, to id.AccountID, amount types.Amount) error
	Burn(ctx context.Context, from id.AccountID, amount types.Amount) error
	Transfer(ctx context.Context, from, to id.AccountID, amount types.Amount) error
	BalanceOf(ctx context.Context, account id.AccountID) (types.Amount, error)
	Supply(ctx context.Context) (Supply, error)

	MembershipExpiry(ctx context.Context, account id.AccountID) (time.Time, error)
	SetMembershipExpiry(ctx context.Context, account id.AccountID, expiry time.Time) error
	ReferralBonus(ctx context.Context, account id.AccountID) (types.Amount, error)
	AddReferralBonus(ctx context.Context, account id.AccountID, amount types.Amount) error
	ActiveChallenge(ctx context.Context, account id.AccountID) (int64, error)
	SetActiveChallenge(ctx context.Context, account id.AccountID, challengeID int64) error
}
