package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/types"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                []OnInit
	onShutdown            []OnShutdown
	onRoleGranted         []OnRoleGranted
	onRoleRevoked         []OnRoleRevoked
	onPaused              []OnPaused
	onUnpaused            []OnUnpaused
	onMinted              []OnMinted
	onMembershipPurchased []OnMembershipPurchased
	onStaffPaid           []OnStaffPaid
	onReferralRewarded    []OnReferralRewarded
	onChallengeCreated    []OnChallengeCreated
	onChallengeRegistered []OnChallengeRegistered
	onChallengeCompleted  []OnChallengeCompleted
	onSessionCreated      []OnSessionCreated
	onSessionBooked       []OnSessionBooked
	onTokensSold          []OnTokensSold
	onFundsWithdrawn      []OnFundsWithdrawn
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnRoleGranted); ok {
		r.onRoleGranted = append(r.onRoleGranted, v)
	}
	if v, ok := p.(OnRoleRevoked); ok {
		r.onRoleRevoked = append(r.onRoleRevoked, v)
	}
	if v, ok := p.(OnPaused); ok {
		r.onPaused = append(r.onPaused, v)
	}
	if v, ok := p.(OnUnpaused); ok {
		r.onUnpaused = append(r.onUnpaused, v)
	}
	if v, ok := p.(OnMinted); ok {
		r.onMinted = append(r.onMinted, v)
	}
	if v, ok := p.(OnMembershipPurchased); ok {
		r.onMembershipPurchased = append(r.onMembershipPurchased, v)
	}
	if v, ok := p.(OnStaffPaid); ok {
		r.onStaffPaid = append(r.onStaffPaid, v)
	}
	if v, ok := p.(OnReferralRewarded); ok {
		r.onReferralRewarded = append(r.onReferralRewarded, v)
	}
	if v, ok := p.(OnChallengeCreated); ok {
		r.onChallengeCreated = append(r.onChallengeCreated, v)
	}
	if v, ok := p.(OnChallengeRegistered); ok {
		r.onChallengeRegistered = append(r.onChallengeRegistered, v)
	}
	if v, ok := p.(OnChallengeCompleted); ok {
		r.onChallengeCompleted = append(r.onChallengeCompleted, v)
	}
	if v, ok := p.(OnSessionCreated); ok {
		r.onSessionCreated = append(r.onSessionCreated, v)
	}
	if v, ok := p.(OnSessionBooked); ok {
		r.onSessionBooked = append(r.onSessionBooked, v)
	}
	if v, ok := p.(OnTokensSold); ok {
		r.onTokensSold = append(r.onTokensSold, v)
	}
	if v, ok := p.(OnFundsWithdrawn); ok {
		r.onFundsWithdrawn = append(r.onFundsWithdrawn, v)
	}

	r.logger.Info("plugin registered", "name", p.Name())

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, g interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, g)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitRoleGranted emits a role granted event.
func (r *Registry) EmitRoleGranted(ctx context.Context, account id.AccountID, ro role.Role, grantedBy id.AccountID) {
	r.mu.RLock()
	plugins := r.onRoleGranted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRoleGranted(ctx, account, ro, grantedBy)
		}); err != nil {
			r.logger.Warn("plugin OnRoleGranted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitRoleRevoked emits a role revoked event.
func (r *Registry) EmitRoleRevoked(ctx context.Context, account id.AccountID, ro role.Role, revokedBy id.AccountID) {
	r.mu.RLock()
	plugins := r.onRoleRevoked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRoleRevoked(ctx, account, ro, revokedBy)
		}); err != nil {
			r.logger.Warn("plugin OnRoleRevoked failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPaused emits a paused event.
func (r *Registry) EmitPaused(ctx context.Context, by id.AccountID) {
	r.mu.RLock()
	plugins := r.onPaused
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaused(ctx, by)
		}); err != nil {
			r.logger.Warn("plugin OnPaused failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitUnpaused emits an unpaused event.
func (r *Registry) EmitUnpaused(ctx context.Context, by id.AccountID) {
	r.mu.RLock()
	plugins := r.onUnpaused
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUnpaused(ctx, by)
		}); err != nil {
			r.logger.Warn("plugin OnUnpaused failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitMinted emits a mint event.
func (r *Registry) EmitMinted(ctx context.Context, to id.AccountID, amount types.Amount, by id.AccountID) {
	r.mu.RLock()
	plugins := r.onMinted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMinted(ctx, to, amount, by)
		}); err != nil {
			r.logger.Warn("plugin OnMinted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitMembershipPurchased emits a membership purchase event.
func (r *Registry) EmitMembershipPurchased(ctx context.Context, account id.AccountID, tier member.Tier, duration time.Duration, expiry time.Time) {
	r.mu.RLock()
	plugins := r.onMembershipPurchased
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMembershipPurchased(ctx, account, tier, duration, expiry)
		}); err != nil {
			r.logger.Warn("plugin OnMembershipPurchased failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitStaffPaid emits a staff payment event.
func (r *Registry) EmitStaffPaid(ctx context.Context, from, staff id.AccountID, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onStaffPaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStaffPaid(ctx, from, staff, amount)
		}); err != nil {
			r.logger.Warn("plugin OnStaffPaid failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitReferralRewarded emits a referral reward event.
func (r *Registry) EmitReferralRewarded(ctx context.Context, referrer id.AccountID, reward types.Amount) {
	r.mu.RLock()
	plugins := r.onReferralRewarded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnReferralRewarded(ctx, referrer, reward)
		}); err != nil {
			r.logger.Warn("plugin OnReferralRewarded failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitChallengeCreated emits a challenge created event.
func (r *Registry) EmitChallengeCreated(ctx context.Context, c *challenge.Challenge) {
	r.mu.RLock()
	plugins := r.onChallengeCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnChallengeCreated(ctx, c)
		}); err != nil {
			r.logger.Warn("plugin OnChallengeCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitChallengeRegistered emits a challenge registration event.
func (r *Registry) EmitChallengeRegistered(ctx context.Context, account id.AccountID, challengeID int64) {
	r.mu.RLock()
	plugins := r.onChallengeRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnChallengeRegistered(ctx, account, challengeID)
		}); err != nil {
			r.logger.Warn("plugin OnChallengeRegistered failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitChallengeCompleted emits a challenge completion event.
func (r *Registry) EmitChallengeCompleted(ctx context.Context, account id.AccountID, challengeID int64, reward types.Amount) {
	r.mu.RLock()
	plugins := r.onChallengeCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnChallengeCompleted(ctx, account, challengeID, reward)
		}); err != nil {
			r.logger.Warn("plugin OnChallengeCompleted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitSessionCreated emits a session created event.
func (r *Registry) EmitSessionCreated(ctx context.Context, s *session.Session) {
	r.mu.RLock()
	plugins := r.onSessionCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSessionCreated(ctx, s)
		}); err != nil {
			r.logger.Warn("plugin OnSessionCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitSessionBooked emits a session booking event.
func (r *Registry) EmitSessionBooked(ctx context.Context, account id.AccountID, sessionID int64, cost types.Amount) {
	r.mu.RLock()
	plugins := r.onSessionBooked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSessionBooked(ctx, account, sessionID, cost)
		}); err != nil {
			r.logger.Warn("plugin OnSessionBooked failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTokensSold emits a tokens sold event.
func (r *Registry) EmitTokensSold(ctx context.Context, buyer id.AccountID, payment, tokens types.Amount) {
	r.mu.RLock()
	plugins := r.onTokensSold
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTokensSold(ctx, buyer, payment, tokens)
		}); err != nil {
			r.logger.Warn("plugin OnTokensSold failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitFundsWithdrawn emits a funds withdrawn event.
func (r *Registry) EmitFundsWithdrawn(ctx context.Context, to id.AccountID, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onFundsWithdrawn
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFundsWithdrawn(ctx, to, amount)
		}); err != nil {
			r.logger.Warn("plugin OnFundsWithdrawn failed", "plugin", p.Name(), "error", err)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block a ledger operation.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
