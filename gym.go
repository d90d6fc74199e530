package gymledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/gymledger/account"
	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/plugin"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/sale"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/store"
	"github.com/xraph/gymledger/types"
)

// Gym is the unit-of-account ledger engine. A single fungible balance per
// account is the currency for all gym activity: memberships burn balance,
// staff payments transfer it, referral and challenge rewards mint it, and
// the issuance gateway sells the pre-funded balance of its own account.
//
// Every mutating operation validates all preconditions before its first
// write. Mutating operations are serialized by an internal mutex so a call
// either applies completely or not at all; the losing side of two racing
// calls observes updated state and may fail its precondition.
type Gym struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Serializes all mutating operations.
	mu sync.Mutex

	// Configuration
	now            func() time.Time
	prices         *member.PriceTable
	referralReward types.Amount
	saleAccount    id.AccountID
	bootManager    id.AccountID
}

// New creates a new Gym instance.
func New(s store.Store, opts ...Option) *Gym {
	g := &Gym{
		store:          s,
		plugins:        plugin.NewRegistry(),
		logger:         slog.Default(),
		now:            time.Now,
		prices:         member.DefaultPriceTable(),
		referralReward: types.Units(10),
		saleAccount:    id.NewAccountID(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Option configures a Gym instance.
type Option func(*Gym)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gym) {
		g.logger = logger
		g.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(g *Gym) {
		_ = g.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source. All expiry and scheduling logic reads the
// clock through this function.
func WithClock(now func() time.Time) Option {
	return func(g *Gym) {
		g.now = now
	}
}

// WithPriceTable replaces the default membership tariff.
func WithPriceTable(pt *member.PriceTable) Option {
	return func(g *Gym) {
		g.prices = pt
	}
}

// WithReferralReward sets the fixed amount minted per referral reward.
func WithReferralReward(amount types.Amount) Option {
	return func(g *Gym) {
		g.referralReward = amount
	}
}

// WithSaleAccount sets the issuance gateway's ledger account. Its balance
// backs every sale and must be pre-funded by a manager mint.
func WithSaleAccount(acct id.AccountID) Option {
	return func(g *Gym) {
		g.saleAccount = acct
	}
}

// WithBootstrapManager grants the Manager role to acct during Start, so a
// fresh deployment has at least one account able to operate the ledger.
func WithBootstrapManager(acct id.AccountID) Option {
	return func(g *Gym) {
		g.bootManager = acct
	}
}

// Start migrates the store, seeds the bootstrap manager and initializes
// plugins.
func (g *Gym) Start(ctx context.Context) error {
	if err := g.store.Migrate(ctx); err != nil {
		return err
	}

	if !g.bootManager.IsNil() {
		held, err := g.store.HasRole(ctx, g.bootManager, role.Manager)
		if err != nil {
			return err
		}
		if !held {
			grant := &role.Grant{
				Entity:    types.NewEntityAt(g.now()),
				Account:   g.bootManager,
				Role:      role.Manager,
				GrantedBy: g.bootManager,
			}
			if err := g.store.GrantRole(ctx, grant); err != nil {
				return err
			}
		}
	}

	g.plugins.EmitInit(ctx, g)

	g.logger.Info("gym ledger started",
		"sale_account", g.saleAccount.String(),
		"referral_reward", g.referralReward.String(),
	)

	return nil
}

// Stop shuts down the Gym.
func (g *Gym) Stop() error {
	ctx := context.Background()
	g.plugins.EmitShutdown(ctx)

	return g.store.Close()
}

// SaleAccount returns the issuance gateway's ledger account.
func (g *Gym) SaleAccount() id.AccountID {
	return g.saleAccount
}

// ──────────────────────────────────────────────────
// Role Directory
// ──────────────────────────────────────────────────

// GrantRole grants a role tag to an account. Manager-only.
func (g *Gym) GrantRole(ctx context.Context, caller, acct id.AccountID, r role.Role) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if acct.IsNil() {
		return ErrNilAccount
	}
	if !r.Valid() {
		return ErrUnknownRole
	}

	grant := &role.Grant{
		Entity:    types.NewEntityAt(g.now()),
		Account:   acct,
		Role:      r,
		GrantedBy: caller,
	}
	if err := g.store.GrantRole(ctx, grant); err != nil {
		return err
	}

	g.plugins.EmitRoleGranted(ctx, acct, r, caller)
	return nil
}

// RevokeRole revokes a role tag from an account. Manager-only.
func (g *Gym) RevokeRole(ctx context.Context, caller, acct id.AccountID, r role.Role) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if acct.IsNil() {
		return ErrNilAccount
	}
	if !r.Valid() {
		return ErrUnknownRole
	}

	if err := g.store.RevokeRole(ctx, acct, r); err != nil {
		return err
	}

	g.plugins.EmitRoleRevoked(ctx, acct, r, caller)
	return nil
}

// HasRole reports whether an account holds a role tag.
func (g *Gym) HasRole(ctx context.Context, acct id.AccountID, r role.Role) (bool, error) {
	return g.store.HasRole(ctx, acct, r)
}

// Roles lists the role tags an account holds.
func (g *Gym) Roles(ctx context.Context, acct id.AccountID) ([]role.Role, error) {
	return g.store.ListRoles(ctx, acct)
}

// ──────────────────────────────────────────────────
// Ledger administration
// ──────────────────────────────────────────────────

// Pause sets the global interlock. Manager-only; while set, every
// balance-mutating entry point refuses to proceed.
func (g *Gym) Pause(ctx context.Context, caller id.AccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if err := g.store.SetPaused(ctx, true); err != nil {
		return err
	}

	g.logger.Warn("ledger paused", "by", caller.String())
	g.plugins.EmitPaused(ctx, caller)
	return nil
}

// Unpause clears the global interlock. Manager-only.
func (g *Gym) Unpause(ctx context.Context, caller id.AccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if err := g.store.SetPaused(ctx, false); err != nil {
		return err
	}

	g.logger.Info("ledger unpaused", "by", caller.String())
	g.plugins.EmitUnpaused(ctx, caller)
	return nil
}

// Paused reports the state of the global interlock.
func (g *Gym) Paused(ctx context.Context) (bool, error) {
	return g.store.Paused(ctx)
}

// Mint issues new balance directly, outside the sale path. Manager-only.
func (g *Gym) Mint(ctx context.Context, caller, to id.AccountID, amount types.Amount) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if err := g.requireUnpaused(ctx); err != nil {
		return err
	}
	if to.IsNil() {
		return ErrNilAccount
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if err := g.store.Mint(ctx, to, amount); err != nil {
		return err
	}

	g.plugins.EmitMinted(ctx, to, amount, caller)
	return nil
}

// BalanceOf returns an account's current balance.
func (g *Gym) BalanceOf(ctx context.Context, acct id.AccountID) (types.Amount, error) {
	return g.store.BalanceOf(ctx, acct)
}

// Supply returns the cumulative minted and burned totals.
func (g *Gym) Supply(ctx context.Context) (account.Supply, error) {
	return g.store.Supply(ctx)
}

// Account returns a snapshot of an account's ledger and lifecycle state.
func (g *Gym) Account(ctx context.Context, acct id.AccountID) (*account.Account, error) {
	return g.store.GetAccount(ctx, acct)
}

// ──────────────────────────────────────────────────
// Membership Lifecycle
// ──────────────────────────────────────────────────

// PurchaseMembership burns the tier's price from the caller and extends
// their membership. Member-only. A purchase while the current expiry is
// still in the future stacks the tier's duration onto it; a lapsed or fresh
// account starts at now plus the duration.
func (g *Gym) PurchaseMembership(ctx context.Context, caller id.AccountID, tier member.Tier) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Member); err != nil {
		return err
	}
	if err := g.requireUnpaused(ctx); err != nil {
		return err
	}

	terms, ok := g.prices.Lookup(tier)
	if !ok {
		return ErrUnknownTier
	}

	balance, err := g.store.BalanceOf(ctx, caller)
	if err != nil {
		return err
	}
	if balance.LessThan(terms.Price) {
		return ErrInsufficientBalance
	}

	now := g.now()
	current, err := g.store.MembershipExpiry(ctx, caller)
	if err != nil {
		return err
	}
	expiry := now.Add(terms.Duration)
	if current.After(now) {
		expiry = current.Add(terms.Duration)
	}

	if err := g.store.Burn(ctx, caller, terms.Price); err != nil {
		return err
	}
	if err := g.store.SetMembershipExpiry(ctx, caller, expiry); err != nil {
		return err
	}

	g.logger.Info("membership purchased",
		"account", caller.String(),
		"tier", tier.String(),
		"expiry", expiry,
	)
	g.plugins.EmitMembershipPurchased(ctx, caller, tier, terms.Duration, expiry)
	return nil
}

// RemainingTime returns how long an account's membership still runs,
// floored at zero. Pure read.
func (g *Gym) RemainingTime(ctx context.Context, acct id.AccountID) (time.Duration, error) {
	expiry, err := g.store.MembershipExpiry(ctx, acct)
	if err != nil {
		return 0, err
	}
	now := g.now()
	if !expiry.After(now) {
		return 0, nil
	}
	return expiry.Sub(now), nil
}

// ──────────────────────────────────────────────────
// Staffing
// ──────────────────────────────────────────────────

// PayStaff transfers amount from the caller's own balance to a staff
// account. Manager-only; the recipient must hold the Staff tag.
func (g *Gym) PayStaff(ctx context.Context, caller, staff id.AccountID, amount types.Amount) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if err := g.requireUnpaused(ctx); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	isStaff, err := g.store.HasRole(ctx, staff, role.Staff)
	if err != nil {
		return err
	}
	if !isStaff {
		return ErrRecipientNotStaff
	}

	balance, err := g.store.BalanceOf(ctx, caller)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	if err := g.store.Transfer(ctx, caller, staff, amount); err != nil {
		return err
	}

	g.plugins.EmitStaffPaid(ctx, caller, staff, amount)
	return nil
}

// ──────────────────────────────────────────────────
// Referral program
// ──────────────────────────────────────────────────

// RewardReferral mints the configured reward to a referrer with an active
// membership and accumulates their bonus counter. Manager-only.
func (g *Gym) RewardReferral(ctx context.Context, caller, referrer id.AccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if err := g.requireUnpaused(ctx); err != nil {
		return err
	}
	if referrer.IsNil() {
		return ErrNilAccount
	}

	expiry, err := g.store.MembershipExpiry(ctx, referrer)
	if err != nil {
		return err
	}
	if !expiry.After(g.now()) {
		return ErrMembershipLapsed
	}

	if err := g.store.Mint(ctx, referrer, g.referralReward); err != nil {
		return err
	}
	if err := g.store.AddReferralBonus(ctx, referrer, g.referralReward); err != nil {
		return err
	}

	g.plugins.EmitReferralRewarded(ctx, referrer, g.referralReward)
	return nil
}

// ReferralBonus returns the cumulative reward minted to an account through
// the referral program.
func (g *Gym) ReferralBonus(ctx context.Context, acct id.AccountID) (types.Amount, error) {
	return g.store.ReferralBonus(ctx, acct)
}

// ──────────────────────────────────────────────────
// Challenges
// ──────────────────────────────────────────────────

// CreateChallenge stores a new challenge under the next monotonic id.
// Manager-only.
func (g *Gym) CreateChallenge(ctx context.Context, caller id.AccountID, name string, reward types.Amount) (*challenge.Challenge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return nil, err
	}
	if !reward.IsPositive() {
		return nil, ErrInvalidAmount
	}

	c := &challenge.Challenge{
		Entity:    types.NewEntityAt(g.now()),
		Name:      name,
		Reward:    reward,
		CreatedBy: caller,
	}
	if err := g.store.CreateChallenge(ctx, c); err != nil {
		return nil, err
	}

	g.plugins.EmitChallengeCreated(ctx, c)
	return c, nil
}

// RegisterForChallenge points the caller's single active-challenge slot at
// an existing challenge. Member-only. A prior unfinished registration is
// silently overwritten.
func (g *Gym) RegisterForChallenge(ctx context.Context, caller id.AccountID, challengeID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Member); err != nil {
		return err
	}

	if _, err := g.store.GetChallenge(ctx, challengeID); err != nil {
		return err
	}
	if err := g.store.SetActiveChallenge(ctx, caller, challengeID); err != nil {
		return err
	}

	g.plugins.EmitChallengeRegistered(ctx, caller, challengeID)
	return nil
}

// CompleteChallenge mints the registered challenge's reward to the caller
// and clears their slot. Member-only; the slot clears exactly once per
// registration, so re-completing without re-registering fails.
func (g *Gym) CompleteChallenge(ctx context.Context, caller id.AccountID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Member); err != nil {
		return err
	}
	if err := g.requireUnpaused(ctx); err != nil {
		return err
	}

	active, err := g.store.ActiveChallenge(ctx, caller)
	if err != nil {
		return err
	}
	if active == challenge.None {
		return ErrNoActiveChallenge
	}

	c, err := g.store.GetChallenge(ctx, active)
	if err != nil {
		return err
	}

	if err := g.store.Mint(ctx, caller, c.Reward); err != nil {
		return err
	}
	if err := g.store.SetActiveChallenge(ctx, caller, challenge.None); err != nil {
		return err
	}

	g.plugins.EmitChallengeCompleted(ctx, caller, c.ID, c.Reward)
	return nil
}

// Challenge returns a challenge's details.
func (g *Gym) Challenge(ctx context.Context, challengeID int64) (*challenge.Challenge, error) {
	return g.store.GetChallenge(ctx, challengeID)
}

// ActiveChallenge returns the challenge id an account is registered for, or
// challenge.None.
func (g *Gym) ActiveChallenge(ctx context.Context, acct id.AccountID) (int64, error) {
	return g.store.ActiveChallenge(ctx, acct)
}

// ChallengeCount returns the number of challenges ever created.
func (g *Gym) ChallengeCount(ctx context.Context) (int64, error) {
	return g.store.ChallengeCount(ctx)
}

// ──────────────────────────────────────────────────
// Training sessions
// ──────────────────────────────────────────────────

// CreateTrainingSession schedules a session under the next monotonic id.
// Trainer-only; the date must be strictly in the future.
func (g *Gym) CreateTrainingSession(ctx context.Context, caller id.AccountID, name string, date time.Time, cost types.Amount) (*session.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Trainer); err != nil {
		return nil, err
	}
	if !date.After(g.now()) {
		return nil, ErrSessionNotFuture
	}
	if cost.IsNegative() {
		return nil, ErrInvalidAmount
	}

	s := &session.Session{
		Entity:  types.NewEntityAt(g.now()),
		Name:    name,
		Date:    date,
		Cost:    cost,
		Trainer: caller,
	}
	if err := g.store.CreateSession(ctx, s); err != nil {
		return nil, err
	}

	g.plugins.EmitSessionCreated(ctx, s)
	return s, nil
}

// RegisterForTrainingSession burns the session's cost from the caller and
// appends them to the participant list. Member-only. Bookings are not
// exclusive: the same account may register repeatedly and pays each time.
func (g *Gym) RegisterForTrainingSession(ctx context.Context, caller id.AccountID, sessionID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Member); err != nil {
		return err
	}
	if err := g.requireUnpaused(ctx); err != nil {
		return err
	}

	s, err := g.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	balance, err := g.store.BalanceOf(ctx, caller)
	if err != nil {
		return err
	}
	if balance.LessThan(s.Cost) {
		return ErrInsufficientBalance
	}

	if err := g.store.Burn(ctx, caller, s.Cost); err != nil {
		return err
	}
	if err := g.store.AddParticipant(ctx, sessionID, caller); err != nil {
		return err
	}

	g.plugins.EmitSessionBooked(ctx, caller, sessionID, s.Cost)
	return nil
}

// ListTrainingSessions returns id and name for every session ever created.
func (g *Gym) ListTrainingSessions(ctx context.Context) ([]session.Summary, error) {
	return g.store.ListSessions(ctx)
}

// TrainingSession returns a session's details.
func (g *Gym) TrainingSession(ctx context.Context, sessionID int64) (*session.Session, error) {
	return g.store.GetSession(ctx, sessionID)
}

// Participants returns a session's ordered participant list.
func (g *Gym) Participants(ctx context.Context, sessionID int64) ([]id.AccountID, error) {
	return g.store.Participants(ctx, sessionID)
}

// SessionCount returns the number of sessions ever created.
func (g *Gym) SessionCount(ctx context.Context) (int64, error) {
	return g.store.SessionCount(ctx)
}

// ──────────────────────────────────────────────────
// Issuance Gateway
// ──────────────────────────────────────────────────

// Sell converts an external payment into balance at the current price and
// transfers the purchased units from the sale account to the buyer. Open to
// any caller. Integer division: the fractional remainder of the payment is
// not converted and not refunded.
func (g *Gym) Sell(ctx context.Context, buyer id.AccountID, payment types.Amount) (types.Amount, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireUnpaused(ctx); err != nil {
		return 0, err
	}
	if buyer.IsNil() {
		return 0, ErrNilAccount
	}
	if !payment.IsPositive() {
		return 0, ErrInvalidAmount
	}

	pos, err := g.store.SalePosition(ctx)
	if err != nil {
		return 0, err
	}
	if !pos.Price.IsPositive() {
		return 0, ErrInvalidPrice
	}

	tokens, _ := pos.Quote(payment)
	if !tokens.IsPositive() {
		return 0, ErrInvalidAmount
	}

	funded, err := g.store.BalanceOf(ctx, g.saleAccount)
	if err != nil {
		return 0, err
	}
	if funded.LessThan(tokens) {
		return 0, ErrInsufficientBalance
	}

	if err := g.store.Transfer(ctx, g.saleAccount, buyer, tokens); err != nil {
		return 0, err
	}
	if err := g.store.RecordSale(ctx, tokens, payment); err != nil {
		return 0, err
	}

	g.plugins.EmitTokensSold(ctx, buyer, payment, tokens)
	return tokens, nil
}

// Withdraw drains the collected sale proceeds. Manager-only; fails when
// nothing has been collected.
func (g *Gym) Withdraw(ctx context.Context, caller id.AccountID) (types.Amount, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return 0, err
	}

	pos, err := g.store.SalePosition(ctx)
	if err != nil {
		return 0, err
	}
	if !pos.Collected.IsPositive() {
		return 0, ErrNoProceeds
	}

	drained, err := g.store.DrainProceeds(ctx)
	if err != nil {
		return 0, err
	}

	g.plugins.EmitFundsWithdrawn(ctx, caller, drained)
	return drained, nil
}

// SetTokenPrice sets the sale price of one balance unit in payment units.
// Manager-only; the price must be positive.
func (g *Gym) SetTokenPrice(ctx context.Context, caller id.AccountID, price types.Amount) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireRole(ctx, caller, role.Manager); err != nil {
		return err
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}

	return g.store.SetSalePrice(ctx, price)
}

// SalePosition returns the gateway's price and accounting totals.
func (g *Gym) SalePosition(ctx context.Context) (sale.Position, error) {
	return g.store.SalePosition(ctx)
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func (g *Gym) requireRole(ctx context.Context, caller id.AccountID, r role.Role) error {
	if caller.IsNil() {
		return ErrNilAccount
	}
	held, err := g.store.HasRole(ctx, caller, r)
	if err != nil {
		return err
	}
	if !held {
		return ErrMissingRole
	}
	return nil
}

func (g *Gym) requireUnpaused(ctx context.Context) error {
	paused, err := g.store.Paused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}
