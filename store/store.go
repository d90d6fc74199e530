package store

import (
	"context"
	"time"

	"github.com/xraph/gymledger/account"
	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/sale"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/types"
)

// Store is the unified storage interface for all gym ledger state.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
//
// Mint, Burn and Transfer are the only ways any balance changes. Each must
// apply atomically: Burn and Transfer fail with ErrInsufficientBalance and no
// effect when the source balance is short, and Mint/Burn keep the cumulative
// supply totals in step with the balance they touch.
type Store interface {
	// Account and balance methods
	GetAccount(ctx context.Context, acct id.AccountID) (*account.Account, error)
	Mint(ctx context.Context, to id.AccountID, amount types.Amount) error
	Burn(ctx context.Context, from id.AccountID, amount types.Amount) error
	Transfer(ctx context.Context, from, to id.AccountID, amount types.Amount) error
	BalanceOf(ctx context.Context, acct id.AccountID) (types.Amount, error)
	Supply(ctx context.Context) (account.Supply, error)

	MembershipExpiry(ctx context.Context, acct id.AccountID) (time.Time, error)
	SetMembershipExpiry(ctx context.Context, acct id.AccountID, expiry time.Time) error
	ReferralBonus(ctx context.Context, acct id.AccountID) (types.Amount, error)
	AddReferralBonus(ctx context.Context, acct id.AccountID, amount types.Amount) error
	ActiveChallenge(ctx context.Context, acct id.AccountID) (int64, error)
	SetActiveChallenge(ctx context.Context, acct id.AccountID, challengeID int64) error

	// Role methods
	GrantRole(ctx context.Context, g *role.Grant) error
	RevokeRole(ctx context.Context, acct id.AccountID, r role.Role) error
	HasRole(ctx context.Context, acct id.AccountID, r role.Role) (bool, error)
	ListRoles(ctx context.Context, acct id.AccountID) ([]role.Role, error)

	// Challenge methods
	CreateChallenge(ctx context.Context, c *challenge.Challenge) error
	GetChallenge(ctx context.Context, challengeID int64) (*challenge.Challenge, error)
	ChallengeCount(ctx context.Context) (int64, error)

	// Training session methods
	CreateSession(ctx context.Context, s *session.Session) error
	GetSession(ctx context.Context, sessionID int64) (*session.Session, error)
	SessionCount(ctx context.Context) (int64, error)
	ListSessions(ctx context.Context) ([]session.Summary, error)
	AddParticipant(ctx context.Context, sessionID int64, acct id.AccountID) error
	Participants(ctx context.Context, sessionID int64) ([]id.AccountID, error)

	// Issuance gateway methods
	SalePosition(ctx context.Context) (sale.Position, error)
	SetSalePrice(ctx context.Context, price types.Amount) error
	RecordSale(ctx context.Context, tokens, payment types.Amount) error
	DrainProceeds(ctx context.Context) (types.Amount, error)

	// Pause gate
	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
