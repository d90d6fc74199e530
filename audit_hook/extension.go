// Package audithook bridges gym ledger lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on a
// concrete audit store. Callers inject a RecorderFunc adapter that bridges
// to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/plugin"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                = (*Extension)(nil)
	_ plugin.OnRoleGranted         = (*Extension)(nil)
	_ plugin.OnRoleRevoked         = (*Extension)(nil)
	_ plugin.OnPaused              = (*Extension)(nil)
	_ plugin.OnUnpaused            = (*Extension)(nil)
	_ plugin.OnMinted              = (*Extension)(nil)
	_ plugin.OnMembershipPurchased = (*Extension)(nil)
	_ plugin.OnStaffPaid           = (*Extension)(nil)
	_ plugin.OnReferralRewarded    = (*Extension)(nil)
	_ plugin.OnChallengeCreated    = (*Extension)(nil)
	_ plugin.OnChallengeRegistered = (*Extension)(nil)
	_ plugin.OnChallengeCompleted  = (*Extension)(nil)
	_ plugin.OnSessionCreated      = (*Extension)(nil)
	_ plugin.OnSessionBooked       = (*Extension)(nil)
	_ plugin.OnTokensSold          = (*Extension)(nil)
	_ plugin.OnFundsWithdrawn      = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges gym ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Role directory hooks
// ──────────────────────────────────────────────────

// OnRoleGranted implements plugin.OnRoleGranted.
func (e *Extension) OnRoleGranted(ctx context.Context, account id.AccountID, r role.Role, grantedBy id.AccountID) error {
	return e.record(ctx, ActionRoleGranted, SeverityInfo, OutcomeSuccess,
		ResourceRole, account.String(), CategoryAccess,
		"role", string(r),
		"granted_by", grantedBy.String(),
	)
}

// OnRoleRevoked implements plugin.OnRoleRevoked.
func (e *Extension) OnRoleRevoked(ctx context.Context, account id.AccountID, r role.Role, revokedBy id.AccountID) error {
	return e.record(ctx, ActionRoleRevoked, SeverityWarning, OutcomeSuccess,
		ResourceRole, account.String(), CategoryAccess,
		"role", string(r),
		"revoked_by", revokedBy.String(),
	)
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnPaused implements plugin.OnPaused.
func (e *Extension) OnPaused(ctx context.Context, by id.AccountID) error {
	return e.record(ctx, ActionPaused, SeverityCritical, OutcomeSuccess,
		ResourceLedger, "", CategoryLedger,
		"by", by.String(),
	)
}

// OnUnpaused implements plugin.OnUnpaused.
func (e *Extension) OnUnpaused(ctx context.Context, by id.AccountID) error {
	return e.record(ctx, ActionResumed, SeverityWarning, OutcomeSuccess,
		ResourceLedger, "", CategoryLedger,
		"by", by.String(),
	)
}

// OnMinted implements plugin.OnMinted.
func (e *Extension) OnMinted(ctx context.Context, to id.AccountID, amount types.Amount, by id.AccountID) error {
	return e.record(ctx, ActionMinted, SeverityInfo, OutcomeSuccess,
		ResourceLedger, to.String(), CategoryLedger,
		"amount", amount.Int64(),
		"by", by.String(),
	)
}

// ──────────────────────────────────────────────────
// Membership hooks
// ──────────────────────────────────────────────────

// OnMembershipPurchased implements plugin.OnMembershipPurchased.
func (e *Extension) OnMembershipPurchased(ctx context.Context, account id.AccountID, tier member.Tier, duration time.Duration, expiry time.Time) error {
	return e.record(ctx, ActionMembershipPurchased, SeverityInfo, OutcomeSuccess,
		ResourceMembership, account.String(), CategoryPayment,
		"tier", string(tier),
		"duration", duration.String(),
		"expiry", expiry,
	)
}

// OnStaffPaid implements plugin.OnStaffPaid.
func (e *Extension) OnStaffPaid(ctx context.Context, from, staff id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionStaffPaid, SeverityInfo, OutcomeSuccess,
		ResourceLedger, staff.String(), CategoryPayment,
		"from", from.String(),
		"amount", amount.Int64(),
	)
}

// OnReferralRewarded implements plugin.OnReferralRewarded.
func (e *Extension) OnReferralRewarded(ctx context.Context, referrer id.AccountID, reward types.Amount) error {
	return e.record(ctx, ActionReferralRewarded, SeverityInfo, OutcomeSuccess,
		ResourceMembership, referrer.String(), CategoryIncentive,
		"reward", reward.Int64(),
	)
}

// ──────────────────────────────────────────────────
// Challenge hooks
// ──────────────────────────────────────────────────

// OnChallengeCreated implements plugin.OnChallengeCreated.
func (e *Extension) OnChallengeCreated(ctx context.Context, c *challenge.Challenge) error {
	return e.record(ctx, ActionChallengeCreated, SeverityInfo, OutcomeSuccess,
		ResourceChallenge, fmt.Sprintf("%d", c.ID), CategoryIncentive,
		"name", c.Name,
		"reward", c.Reward.Int64(),
		"created_by", c.CreatedBy.String(),
	)
}

// OnChallengeRegistered implements plugin.OnChallengeRegistered.
func (e *Extension) OnChallengeRegistered(ctx context.Context, account id.AccountID, challengeID int64) error {
	return e.record(ctx, ActionChallengeRegistered, SeverityInfo, OutcomeSuccess,
		ResourceChallenge, fmt.Sprintf("%d", challengeID), CategoryIncentive,
		"account", account.String(),
	)
}

// OnChallengeCompleted implements plugin.OnChallengeCompleted.
func (e *Extension) OnChallengeCompleted(ctx context.Context, account id.AccountID, challengeID int64, reward types.Amount) error {
	return e.record(ctx, ActionChallengeCompleted, SeverityInfo, OutcomeSuccess,
		ResourceChallenge, fmt.Sprintf("%d", challengeID), CategoryIncentive,
		"account", account.String(),
		"reward", reward.Int64(),
	)
}

// ──────────────────────────────────────────────────
// Training session hooks
// ──────────────────────────────────────────────────

// OnSessionCreated implements plugin.OnSessionCreated.
func (e *Extension) OnSessionCreated(ctx context.Context, s *session.Session) error {
	return e.record(ctx, ActionSessionCreated, SeverityInfo, OutcomeSuccess,
		ResourceSession, fmt.Sprintf("%d", s.ID), CategoryIncentive,
		"name", s.Name,
		"date", s.Date,
		"cost", s.Cost.Int64(),
		"trainer", s.Trainer.String(),
	)
}

// OnSessionBooked implements plugin.OnSessionBooked.
func (e *Extension) OnSessionBooked(ctx context.Context, account id.AccountID, sessionID int64, cost types.Amount) error {
	return e.record(ctx, ActionSessionBooked, SeverityInfo, OutcomeSuccess,
		ResourceSession, fmt.Sprintf("%d", sessionID), CategoryPayment,
		"account", account.String(),
		"cost", cost.Int64(),
	)
}

// ──────────────────────────────────────────────────
// Issuance gateway hooks
// ──────────────────────────────────────────────────

// OnTokensSold implements plugin.OnTokensSold.
func (e *Extension) OnTokensSold(ctx context.Context, buyer id.AccountID, payment, tokens types.Amount) error {
	return e.record(ctx, ActionTokensSold, SeverityInfo, OutcomeSuccess,
		ResourceSale, buyer.String(), CategoryPayment,
		"payment", payment.Int64(),
		"tokens", tokens.Int64(),
	)
}

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (e *Extension) OnFundsWithdrawn(ctx context.Context, to id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionFundsWithdrawn, SeverityWarning, OutcomeSuccess,
		ResourceSale, to.String(), CategoryPayment,
		"amount", amount.Int64(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
