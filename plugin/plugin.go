// Package plugin provides an extensible plugin system for the gym ledger.
// Plugins can hook into every notification event to extend functionality.
package plugin

import (
	"context"
	"time"

	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, g interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Role directory hooks
// ──────────────────────────────────────────────────

// OnRoleGranted is called when an account is granted a role tag.
type OnRoleGranted interface {
	Plugin
	OnRoleGranted(ctx context.Context, account id.AccountID, r role.Role, grantedBy id.AccountID) error
}

// OnRoleRevoked is called when a role tag is revoked from an account.
type OnRoleRevoked interface {
	Plugin
	OnRoleRevoked(ctx context.Context, account id.AccountID, r role.Role, revokedBy id.AccountID) error
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnPaused is called when the global pause interlock is set.
type OnPaused interface {
	Plugin
	OnPaused(ctx context.Context, by id.AccountID) error
}

// OnUnpaused is called when the global pause interlock is cleared.
type OnUnpaused interface {
	Plugin
	OnUnpaused(ctx context.Context, by id.AccountID) error
}

// OnMinted is called when balance is issued directly by a manager.
type OnMinted interface {
	Plugin
	OnMinted(ctx context.Context, to id.AccountID, amount types.Amount, by id.AccountID) error
}

// ──────────────────────────────────────────────────
// Membership hooks
// ──────────────────────────────────────────────────

// OnMembershipPurchased is called after a membership purchase or extension.
type OnMembershipPurchased interface {
	Plugin
	OnMembershipPurchased(ctx context.Context, account id.AccountID, tier member.Tier, duration time.Duration, expiry time.Time) error
}

// OnStaffPaid is called when a manager pays a staff account.
type OnStaffPaid interface {
	Plugin
	OnStaffPaid(ctx context.Context, from, staff id.AccountID, amount types.Amount) error
}

// OnReferralRewarded is called when a referral reward is minted.
type OnReferralRewarded interface {
	Plugin
	OnReferralRewarded(ctx context.Context, referrer id.AccountID, reward types.Amount) error
}

// ──────────────────────────────────────────────────
// Challenge hooks
// ──────────────────────────────────────────────────

// OnChallengeCreated is called when a new challenge is created.
type OnChallengeCreated interface {
	Plugin
	OnChallengeCreated(ctx context.Context, c *challenge.Challenge) error
}

// OnChallengeRegistered is called when an account registers for a challenge.
type OnChallengeRegistered interface {
	Plugin
	OnChallengeRegistered(ctx context.Context, account id.AccountID, challengeID int64) error
}

// OnChallengeCompleted is called when an account completes its registered
// challenge and the reward is paid.
type OnChallengeCompleted interface {
	Plugin
	OnChallengeCompleted(ctx context.Context, account id.AccountID, challengeID int64, reward types.Amount) error
}

// ──────────────────────────────────────────────────
// Training session hooks
// ──────────────────────────────────────────────────

// OnSessionCreated is called when a trainer schedules a session.
type OnSessionCreated interface {
	Plugin
	OnSessionCreated(ctx context.Context, s *session.Session) error
}

// OnSessionBooked is called when an account books a session.
type OnSessionBooked interface {
	Plugin
	OnSessionBooked(ctx context.Context, account id.AccountID, sessionID int64, cost types.Amount) error
}

// ──────────────────────────────────────────────────
// Issuance gateway hooks
// ──────────────────────────────────────────────────

// OnTokensSold is called after a successful sale, with the exact issued
// amount.
type OnTokensSold interface {
	Plugin
	OnTokensSold(ctx context.Context, buyer id.AccountID, payment, tokens types.Amount) error
}

// OnFundsWithdrawn is called when collected proceeds are withdrawn.
type OnFundsWithdrawn interface {
	Plugin
	OnFundsWithdrawn(ctx context.Context, to id.AccountID, amount types.Amount) error
}
