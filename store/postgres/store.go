package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	gymledger "github.com/xraph/gymledger"
	"github.com/xraph/gymledger/account"
	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/sale"
	"github.com/xraph/gymledger/session"
	gymstore "github.com/xraph/gymledger/store"
	"github.com/xraph/gymledger/types"
)

// compile-time interface check
var _ gymstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("gymledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("gymledger/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Account Store ====================

func (s *Store) GetAccount(ctx context.Context, acct id.AccountID) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", acct.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return &account.Account{Entity: types.NewEntity(), ID: acct}, nil
		}
		return nil, err
	}
	return fromAccountModel(m)
}

func (s *Store) Mint(ctx context.Context, to id.AccountID, amount types.Amount) error {
	if err := s.ensureAccount(ctx, to); err != nil {
		return err
	}
	_, err := s.pg.NewUpdate((*accountModel)(nil)).
		Set("balance = balance + $1", amount.Int64()).
		Set("updated_at = $2", now()).
		Where("id = $3", to.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	return s.bumpState(ctx, "minted = minted + $1", amount.Int64())
}

func (s *Store) Burn(ctx context.Context, from id.AccountID, amount types.Amount) error {
	res, err := s.pg.NewUpdate((*accountModel)(nil)).
		Set("balance = balance - $1", amount.Int64()).
		Set("updated_at = $2", now()).
		Where("id = $3", from.String()).
		Where("balance >= $4", amount.Int64()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gymledger.ErrInsufficientBalance
	}
	return s.bumpState(ctx, "burned = burned + $1", amount.Int64())
}

func (s *Store) Transfer(ctx context.Context, from, to id.AccountID, amount types.Amount) error {
	res, err := s.pg.NewUpdate((*accountModel)(nil)).
		Set("balance = balance - $1", amount.Int64()).
		Set("updated_at = $2", now()).
		Where("id = $3", from.String()).
		Where("balance >= $4", amount.Int64()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gymledger.ErrInsufficientBalance
	}

	if err := s.ensureAccount(ctx, to); err != nil {
		return err
	}
	_, err = s.pg.NewUpdate((*accountModel)(nil)).
		Set("balance = balance + $1", amount.Int64()).
		Set("updated_at = $2", now()).
		Where("id = $3", to.String()).
		Exec(ctx)
	return err
}

func (s *Store) BalanceOf(ctx context.Context, acct id.AccountID) (types.Amount, error) {
	var balance int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(SUM(balance), 0) FROM gym_accounts WHERE id = $1
	`, acct.String()).Scan(ctx, &balance)
	if err != nil {
		return 0, err
	}
	return types.Amount(balance), nil
}

func (s *Store) Supply(ctx context.Context) (account.Supply, error) {
	st, err := s.state(ctx)
	if err != nil {
		return account.Supply{}, err
	}
	return account.Supply{
		Minted: types.Amount(st.Minted),
		Burned: types.Amount(st.Burned),
	}, nil
}

func (s *Store) MembershipExpiry(ctx context.Context, acct id.AccountID) (time.Time, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", acct.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	if m.MembershipExpiry == nil {
		return time.Time{}, nil
	}
	return *m.MembershipExpiry, nil
}

func (s *Store) SetMembershipExpiry(ctx context.Context, acct id.AccountID, expiry time.Time) error {
	if err := s.ensureAccount(ctx, acct); err != nil {
		return err
	}
	_, err := s.pg.NewUpdate((*accountModel)(nil)).
		Set("membership_expiry = $1", expiry).
		Set("updated_at = $2", now()).
		Where("id = $3", acct.String()).
		Exec(ctx)
	return err
}

func (s *Store) ReferralBonus(ctx context.Context, acct id.AccountID) (types.Amount, error) {
	var bonus int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(SUM(referral_bonus), 0) FROM gym_accounts WHERE id = $1
	`, acct.String()).Scan(ctx, &bonus)
	if err != nil {
		return 0, err
	}
	return types.Amount(bonus), nil
}

func (s *Store) AddReferralBonus(ctx context.Context, acct id.AccountID, amount types.Amount) error {
	if err := s.ensureAccount(ctx, acct); err != nil {
		return err
	}
	_, err := s.pg.NewUpdate((*accountModel)(nil)).
		Set("referral_bonus = referral_bonus + $1", amount.Int64()).
		Set("updated_at = $2", now()).
		Where("id = $3", acct.String()).
		Exec(ctx)
	return err
}

func (s *Store) ActiveChallenge(ctx context.Context, acct id.AccountID) (int64, error) {
	var active int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(SUM(active_challenge), 0) FROM gym_accounts WHERE id = $1
	`, acct.String()).Scan(ctx, &active)
	if err != nil {
		return challenge.None, err
	}
	return active, nil
}

func (s *Store) SetActiveChallenge(ctx context.Context, acct id.AccountID, challengeID int64) error {
	if err := s.ensureAccount(ctx, acct); err != nil {
		return err
	}
	_, err := s.pg.NewUpdate((*accountModel)(nil)).
		Set("active_challenge = $1", challengeID).
		Set("updated_at = $2", now()).
		Where("id = $3", acct.String()).
		Exec(ctx)
	return err
}

// ==================== Role Store ====================

func (s *Store) GrantRole(ctx context.Context, g *role.Grant) error {
	m := toRoleModel(g)
	_, err := s.pg.NewInsert(m).
		OnConflict("(account, role) DO UPDATE").
		Set("granted_by = EXCLUDED.granted_by").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) RevokeRole(ctx context.Context, acct id.AccountID, r role.Role) error {
	_, err := s.pg.NewDelete((*roleModel)(nil)).
		Where("account = $1", acct.String()).
		Where("role = $2", string(r)).
		Exec(ctx)
	return err
}

func (s *Store) HasRole(ctx context.Context, acct id.AccountID, r role.Role) (bool, error) {
	m := new(roleModel)
	err := s.pg.NewSelect(m).
		Where("account = $1", acct.String()).
		Where("role = $2", string(r)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) ListRoles(ctx context.Context, acct id.AccountID) ([]role.Role, error) {
	var models []roleModel
	err := s.pg.NewSelect(&models).
		Where("account = $1", acct.String()).
		OrderExpr("role ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]role.Role, len(models))
	for i := range models {
		result[i] = role.Role(models[i].Role)
	}
	return result, nil
}

// ==================== Challenge Store ====================

func (s *Store) CreateChallenge(ctx context.Context, c *challenge.Challenge) error {
	seq, err := s.nextSeq(ctx, "challenge_seq")
	if err != nil {
		return err
	}
	c.ID = seq

	m := toChallengeModel(c)
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetChallenge(ctx context.Context, challengeID int64) (*challenge.Challenge, error) {
	m := new(challengeModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", challengeID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gymledger.ErrChallengeNotFound
		}
		return nil, err
	}
	return fromChallengeModel(m)
}

func (s *Store) ChallengeCount(ctx context.Context) (int64, error) {
	st, err := s.state(ctx)
	if err != nil {
		return 0, err
	}
	return st.ChallengeSeq, nil
}

// ==================== Training session Store ====================

func (s *Store) CreateSession(ctx context.Context, sess *session.Session) error {
	seq, err := s.nextSeq(ctx, "session_seq")
	if err != nil {
		return err
	}
	sess.ID = seq

	m := toSessionModel(sess)
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetSession(ctx context.Context, sessionID int64) (*session.Session, error) {
	m := new(sessionModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", sessionID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gymledger.ErrSessionNotFound
		}
		return nil, err
	}
	return fromSessionModel(m)
}

func (s *Store) SessionCount(ctx context.Context) (int64, error) {
	st, err := s.state(ctx)
	if err != nil {
		return 0, err
	}
	return st.SessionSeq, nil
}

func (s *Store) ListSessions(ctx context.Context) ([]session.Summary, error) {
	var models []sessionModel
	err := s.pg.NewSelect(&models).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]session.Summary, len(models))
	for i := range models {
		result[i] = session.Summary{ID: models[i].ID, Name: models[i].Name}
	}
	return result, nil
}

func (s *Store) AddParticipant(ctx context.Context, sessionID int64, acct id.AccountID) error {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}

	var count int64
	err := s.pg.NewRaw(`
		SELECT COUNT(*) FROM gym_session_participants WHERE session_id = $1
	`, sessionID).Scan(ctx, &count)
	if err != nil {
		return err
	}

	m := &participantModel{
		SessionID: sessionID,
		Position:  count + 1,
		Account:   acct.String(),
		CreatedAt: now(),
	}
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) Participants(ctx context.Context, sessionID int64) ([]id.AccountID, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	var models []participantModel
	err := s.pg.NewSelect(&models).
		Where("session_id = $1", sessionID).
		OrderExpr("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]id.AccountID, len(models))
	for i := range models {
		acct, err := id.ParseAccountID(models[i].Account)
		if err != nil {
			return nil, err
		}
		result[i] = acct
	}
	return result, nil
}

// ==================== Issuance gateway Store ====================

func (s *Store) SalePosition(ctx context.Context) (sale.Position, error) {
	st, err := s.state(ctx)
	if err != nil {
		return sale.Position{}, err
	}
	return sale.Position{
		Price:       types.Amount(st.SalePrice),
		TotalIssued: types.Amount(st.SaleIssued),
		Collected:   types.Amount(st.SaleCollected),
	}, nil
}

func (s *Store) SetSalePrice(ctx context.Context, price types.Amount) error {
	return s.bumpState(ctx, "sale_price = $1", price.Int64())
}

func (s *Store) RecordSale(ctx context.Context, tokens, payment types.Amount) error {
	if err := s.bumpState(ctx, "sale_issued = sale_issued + $1", tokens.Int64()); err != nil {
		return err
	}
	return s.bumpState(ctx, "sale_collected = sale_collected + $1", payment.Int64())
}

func (s *Store) DrainProceeds(ctx context.Context) (types.Amount, error) {
	st, err := s.state(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.bumpState(ctx, "sale_collected = $1", 0); err != nil {
		return 0, err
	}
	return types.Amount(st.SaleCollected), nil
}

// ==================== Pause gate ====================

func (s *Store) Paused(ctx context.Context) (bool, error) {
	st, err := s.state(ctx)
	if err != nil {
		return false, err
	}
	return st.Paused, nil
}

func (s *Store) SetPaused(ctx context.Context, paused bool) error {
	t := now()
	res, err := s.pg.NewUpdate((*stateModel)(nil)).
		Set("paused = $1", paused).
		Set("updated_at = $2", t).
		Where("id = $3", stateRowID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gymledger.ErrStoreNotReady
	}
	return nil
}

// ==================== Helpers ====================

// ensureAccount creates a zero-balance row for acct if one does not exist.
func (s *Store) ensureAccount(ctx context.Context, acct id.AccountID) error {
	t := now()
	m := &accountModel{
		ID:        acct.String(),
		CreatedAt: t,
		UpdatedAt: t,
	}
	_, err := s.pg.NewInsert(m).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	return err
}

// state loads the singleton gym_state row.
func (s *Store) state(ctx context.Context) (*stateModel, error) {
	m := new(stateModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", stateRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gymledger.ErrStoreNotReady
		}
		return nil, err
	}
	return m, nil
}

// bumpState applies one SET expression to the singleton gym_state row.
func (s *Store) bumpState(ctx context.Context, set string, arg int64) error {
	res, err := s.pg.NewUpdate((*stateModel)(nil)).
		Set(set, arg).
		Set("updated_at = $2", now()).
		Where("id = $3", stateRowID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gymledger.ErrStoreNotReady
	}
	return nil
}

// nextSeq increments and returns one of the id sequences on gym_state.
func (s *Store) nextSeq(ctx context.Context, column string) (int64, error) {
	if err := s.bumpState(ctx, column+" = "+column+" + $1", 1); err != nil {
		return 0, err
	}
	var seq int64
	err := s.pg.NewRaw(
		"SELECT "+column+" FROM gym_state WHERE id = $1", stateRowID,
	).Scan(ctx, &seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
