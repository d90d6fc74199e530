// Package observability provides a metrics extension for the gym ledger that
// records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/plugin"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                = (*MetricsExtension)(nil)
	_ plugin.OnInit                = (*MetricsExtension)(nil)
	_ plugin.OnRoleGranted         = (*MetricsExtension)(nil)
	_ plugin.OnRoleRevoked         = (*MetricsExtension)(nil)
	_ plugin.OnPaused              = (*MetricsExtension)(nil)
	_ plugin.OnUnpaused            = (*MetricsExtension)(nil)
	_ plugin.OnMinted              = (*MetricsExtension)(nil)
	_ plugin.OnMembershipPurchased = (*MetricsExtension)(nil)
	_ plugin.OnStaffPaid           = (*MetricsExtension)(nil)
	_ plugin.OnReferralRewarded    = (*MetricsExtension)(nil)
	_ plugin.OnChallengeCreated    = (*MetricsExtension)(nil)
	_ plugin.OnChallengeRegistered = (*MetricsExtension)(nil)
	_ plugin.OnChallengeCompleted  = (*MetricsExtension)(nil)
	_ plugin.OnSessionCreated      = (*MetricsExtension)(nil)
	_ plugin.OnSessionBooked       = (*MetricsExtension)(nil)
	_ plugin.OnTokensSold          = (*MetricsExtension)(nil)
	_ plugin.OnFundsWithdrawn      = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a gym plugin to automatically track ledger metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Role directory metrics
	RolesGranted Counter
	RolesRevoked Counter

	// Ledger metrics
	Pauses       Counter
	Resumes      Counter
	MintCount    Counter
	MintedAmount Histogram

	// Membership metrics
	MembershipsPurchased Counter
	StaffPayments        Counter
	StaffPaidAmount      Histogram
	ReferralsRewarded    Counter

	// Challenge metrics
	ChallengesCreated    Counter
	ChallengesRegistered Counter
	ChallengesCompleted  Counter
	ChallengeRewards     Histogram

	// Training session metrics
	SessionsCreated Counter
	SessionsBooked  Counter
	SessionRevenue  Histogram

	// Issuance gateway metrics
	TokensSold     Counter
	SoldAmount     Histogram
	FundsWithdrawn Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Role directory metrics
		RolesGranted: factory.Counter("gym.role.granted"),
		RolesRevoked: factory.Counter("gym.role.revoked"),

		// Ledger metrics
		Pauses:       factory.Counter("gym.ledger.paused"),
		Resumes:      factory.Counter("gym.ledger.resumed"),
		MintCount:    factory.Counter("gym.ledger.mints"),
		MintedAmount: factory.Histogram("gym.ledger.minted_amount"),

		// Membership metrics
		MembershipsPurchased: factory.Counter("gym.membership.purchased"),
		StaffPayments:        factory.Counter("gym.staff.payments"),
		StaffPaidAmount:      factory.Histogram("gym.staff.paid_amount"),
		ReferralsRewarded:    factory.Counter("gym.referral.rewarded"),

		// Challenge metrics
		ChallengesCreated:    factory.Counter("gym.challenge.created"),
		ChallengesRegistered: factory.Counter("gym.challenge.registered"),
		ChallengesCompleted:  factory.Counter("gym.challenge.completed"),
		ChallengeRewards:     factory.Histogram("gym.challenge.reward_amount"),

		// Training session metrics
		SessionsCreated: factory.Counter("gym.session.created"),
		SessionsBooked:  factory.Counter("gym.session.booked"),
		SessionRevenue:  factory.Histogram("gym.session.booking_cost"),

		// Issuance gateway metrics
		TokensSold:     factory.Counter("gym.sale.sales"),
		SoldAmount:     factory.Histogram("gym.sale.tokens_issued"),
		FundsWithdrawn: factory.Counter("gym.sale.withdrawals"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Role directory hooks
// ──────────────────────────────────────────────────

// OnRoleGranted implements plugin.OnRoleGranted.
func (m *MetricsExtension) OnRoleGranted(_ context.Context, _ id.AccountID, _ role.Role, _ id.AccountID) error {
	m.RolesGranted.Inc()
	return nil
}

// OnRoleRevoked implements plugin.OnRoleRevoked.
func (m *MetricsExtension) OnRoleRevoked(_ context.Context, _ id.AccountID, _ role.Role, _ id.AccountID) error {
	m.RolesRevoked.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnPaused implements plugin.OnPaused.
func (m *MetricsExtension) OnPaused(_ context.Context, _ id.AccountID) error {
	m.Pauses.Inc()
	return nil
}

// OnUnpaused implements plugin.OnUnpaused.
func (m *MetricsExtension) OnUnpaused(_ context.Context, _ id.AccountID) error {
	m.Resumes.Inc()
	return nil
}

// OnMinted implements plugin.OnMinted.
func (m *MetricsExtension) OnMinted(_ context.Context, _ id.AccountID, amount types.Amount, _ id.AccountID) error {
	m.MintCount.Inc()
	m.MintedAmount.Observe(float64(amount.Int64()))
	return nil
}

// ──────────────────────────────────────────────────
// Membership hooks
// ──────────────────────────────────────────────────

// OnMembershipPurchased implements plugin.OnMembershipPurchased.
func (m *MetricsExtension) OnMembershipPurchased(_ context.Context, _ id.AccountID, _ member.Tier, _ time.Duration, _ time.Time) error {
	m.MembershipsPurchased.Inc()
	return nil
}

// OnStaffPaid implements plugin.OnStaffPaid.
func (m *MetricsExtension) OnStaffPaid(_ context.Context, _, _ id.AccountID, amount types.Amount) error {
	m.StaffPayments.Inc()
	m.StaffPaidAmount.Observe(float64(amount.Int64()))
	return nil
}

// OnReferralRewarded implements plugin.OnReferralRewarded.
func (m *MetricsExtension) OnReferralRewarded(_ context.Context, _ id.AccountID, _ types.Amount) error {
	m.ReferralsRewarded.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Challenge hooks
// ──────────────────────────────────────────────────

// OnChallengeCreated implements plugin.OnChallengeCreated.
func (m *MetricsExtension) OnChallengeCreated(_ context.Context, _ *challenge.Challenge) error {
	m.ChallengesCreated.Inc()
	return nil
}

// OnChallengeRegistered implements plugin.OnChallengeRegistered.
func (m *MetricsExtension) OnChallengeRegistered(_ context.Context, _ id.AccountID, _ int64) error {
	m.ChallengesRegistered.Inc()
	return nil
}

// OnChallengeCompleted implements plugin.OnChallengeCompleted.
func (m *MetricsExtension) OnChallengeCompleted(_ context.Context, _ id.AccountID, _ int64, reward types.Amount) error {
	m.ChallengesCompleted.Inc()
	m.ChallengeRewards.Observe(float64(reward.Int64()))
	return nil
}

// ──────────────────────────────────────────────────
// Training session hooks
// ──────────────────────────────────────────────────

// OnSessionCreated implements plugin.OnSessionCreated.
func (m *MetricsExtension) OnSessionCreated(_ context.Context, _ *session.Session) error {
	m.SessionsCreated.Inc()
	return nil
}

// OnSessionBooked implements plugin.OnSessionBooked.
func (m *MetricsExtension) OnSessionBooked(_ context.Context, _ id.AccountID, _ int64, cost types.Amount) error {
	m.SessionsBooked.Inc()
	m.SessionRevenue.Observe(float64(cost.Int64()))
	return nil
}

// ──────────────────────────────────────────────────
// Issuance gateway hooks
// ──────────────────────────────────────────────────

// OnTokensSold implements plugin.OnTokensSold.
func (m *MetricsExtension) OnTokensSold(_ context.Context, _ id.AccountID, _, tokens types.Amount) error {
	m.TokensSold.Inc()
	m.SoldAmount.Observe(float64(tokens.Int64()))
	return nil
}

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (m *MetricsExtension) OnFundsWithdrawn(_ context.Context, _ id.AccountID, _ types.Amount) error {
	m.FundsWithdrawn.Inc()
	return nil
}
