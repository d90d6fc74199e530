package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colAccounts   = "gym_accounts"
	colRoles      = "gym_roles"
	colChallenges = "gym_challenges"
	colSessions   = "gym_sessions"
	colState      = "gym_state"
)

// compile-time interface check
var _ gymstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all gym collections and seeds the state
// document.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("gymledger/mongo: migrate %s indexes: %w", col, err)
		}
	}

	t := now()
	_, err := s.mdb.NewUpdate(&stateModel{ID: stateDocID}).
		Filter(bson.M{"_id": stateDocID}).
		SetUpdate(bson.M{"$setOnInsert": bson.M{
			"paused":         false,
			"minted":         int64(0),
			"burned":         int64(0),
			"sale_price":     int64(0),
			"sale_issued":    int64(0),
			"sale_collected": int64(0),
			"challenge_seq":  int64(0),
			"session_seq":    int64(0),
			"updated_at":     t,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: seed state: %w", err)
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
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": acct.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return &account.Account{Entity: types.NewEntity(), ID: acct}, nil
		}
		return nil, fmt.Errorf("gymledger/mongo: get account: %w", err)
	}
	return fromAccountModel(&m)
}

func (s *Store) Mint(ctx context.Context, to id.AccountID, amount types.Amount) error {
	if err := s.creditAccount(ctx, to, amount); err != nil {
		return fmt.Errorf("gymledger/mongo: mint: %w", err)
	}
	return s.bumpState(ctx, bson.M{"$inc": bson.M{"minted": amount.Int64()}})
}

func (s *Store) Burn(ctx context.Context, from id.AccountID, amount types.Amount) error {
	if err := s.debitAccount(ctx, from, amount); err != nil {
		return err
	}
	return s.bumpState(ctx, bson.M{"$inc": bson.M{"burned": amount.Int64()}})
}

func (s *Store) Transfer(ctx context.Context, from, to id.AccountID, amount types.Amount) error {
	if err := s.debitAccount(ctx, from, amount); err != nil {
		return err
	}
	if err := s.creditAccount(ctx, to, amount); err != nil {
		return fmt.Errorf("gymledger/mongo: transfer credit: %w", err)
	}
	return nil
}

func (s *Store) BalanceOf(ctx context.Context, acct id.AccountID) (types.Amount, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": acct.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("gymledger/mongo: balance of: %w", err)
	}
	return types.Amount(m.Balance), nil
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
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": acct.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("gymledger/mongo: membership expiry: %w", err)
	}
	if m.MembershipExpiry == nil {
		return time.Time{}, nil
	}
	return *m.MembershipExpiry, nil
}

func (s *Store) SetMembershipExpiry(ctx context.Context, acct id.AccountID, expiry time.Time) error {
	err := s.upsertAccount(ctx, acct, bson.M{"membership_expiry": expiry})
	if err != nil {
		return fmt.Errorf("gymledger/mongo: set membership expiry: %w", err)
	}
	return nil
}

func (s *Store) ReferralBonus(ctx context.Context, acct id.AccountID) (types.Amount, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": acct.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("gymledger/mongo: referral bonus: %w", err)
	}
	return types.Amount(m.ReferralBonus), nil
}

func (s *Store) AddReferralBonus(ctx context.Context, acct id.AccountID, amount types.Amount) error {
	t := now()
	_, err := s.mdb.NewUpdate(&accountModel{ID: acct.String()}).
		Filter(bson.M{"_id": acct.String()}).
		SetUpdate(bson.M{
			"$inc":         bson.M{"referral_bonus": amount.Int64()},
			"$set":         bson.M{"updated_at": t},
			"$setOnInsert": bson.M{"created_at": t},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: add referral bonus: %w", err)
	}
	return nil
}

func (s *Store) ActiveChallenge(ctx context.Context, acct id.AccountID) (int64, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": acct.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return challenge.None, nil
		}
		return challenge.None, fmt.Errorf("gymledger/mongo: active challenge: %w", err)
	}
	return m.ActiveChallenge, nil
}

func (s *Store) SetActiveChallenge(ctx context.Context, acct id.AccountID, challengeID int64) error {
	err := s.upsertAccount(ctx, acct, bson.M{"active_challenge": challengeID})
	if err != nil {
		return fmt.Errorf("gymledger/mongo: set active challenge: %w", err)
	}
	return nil
}

// ==================== Role Store ====================

func (s *Store) GrantRole(ctx context.Context, g *role.Grant) error {
	m := toRoleModel(g)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":        m.ID,
			"account":    m.Account,
			"role":       m.Role,
			"granted_by": m.GrantedBy,
			"created_at": m.CreatedAt,
			"updated_at": m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: grant role: %w", err)
	}
	return nil
}

func (s *Store) RevokeRole(ctx context.Context, acct id.AccountID, r role.Role) error {
	_, err := s.mdb.NewDelete((*roleModel)(nil)).
		Filter(bson.M{"_id": roleKey(acct, r)}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: revoke role: %w", err)
	}
	return nil
}

func (s *Store) HasRole(ctx context.Context, acct id.AccountID, r role.Role) (bool, error) {
	var m roleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": roleKey(acct, r)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return false, nil
		}
		return false, fmt.Errorf("gymledger/mongo: has role: %w", err)
	}
	return true, nil
}

func (s *Store) ListRoles(ctx context.Context, acct id.AccountID) ([]role.Role, error) {
	var models []roleModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"account": acct.String()}).
		Sort(bson.D{{Key: "role", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("gymledger/mongo: list roles: %w", err)
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
	_, err = s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: create challenge: %w", err)
	}
	return nil
}

func (s *Store) GetChallenge(ctx context.Context, challengeID int64) (*challenge.Challenge, error) {
	var m challengeModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": challengeID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gymledger.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("gymledger/mongo: get challenge: %w", err)
	}
	return fromChallengeModel(&m)
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
	_, err = s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID int64) (*session.Session, error) {
	m, err := s.sessionDoc(ctx, sessionID)
	if err != nil {
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
	err := s.mdb.NewFind(&models).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("gymledger/mongo: list sessions: %w", err)
	}

	result := make([]session.Summary, len(models))
	for i := range models {
		result[i] = session.Summary{ID: models[i].ID, Name: models[i].Name}
	}
	return result, nil
}

func (s *Store) AddParticipant(ctx context.Context, sessionID int64, acct id.AccountID) error {
	res, err := s.mdb.NewUpdate((*sessionModel)(nil)).
		Filter(bson.M{"_id": sessionID}).
		SetUpdate(bson.M{
			"$push": bson.M{"participants": acct.String()},
			"$set":  bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: add participant: %w", err)
	}
	if res.MatchedCount() == 0 {
		return gymledger.ErrSessionNotFound
	}
	return nil
}

func (s *Store) Participants(ctx context.Context, sessionID int64) ([]id.AccountID, error) {
	m, err := s.sessionDoc(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := make([]id.AccountID, len(m.Participants))
	for i, raw := range m.Participants {
		acct, err := id.ParseAccountID(raw)
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
	return s.bumpState(ctx, bson.M{"$set": bson.M{"sale_price": price.Int64()}})
}

func (s *Store) RecordSale(ctx context.Context, tokens, payment types.Amount) error {
	return s.bumpState(ctx, bson.M{"$inc": bson.M{
		"sale_issued":    tokens.Int64(),
		"sale_collected": payment.Int64(),
	}})
}

func (s *Store) DrainProceeds(ctx context.Context) (types.Amount, error) {
	st, err := s.state(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.bumpState(ctx, bson.M{"$set": bson.M{"sale_collected": int64(0)}}); err != nil {
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
	return s.bumpState(ctx, bson.M{"$set": bson.M{"paused": paused}})
}

// ==================== Helpers ====================

// creditAccount adds amount to the account document, creating it on first
// touch.
func (s *Store) creditAccount(ctx context.Context, acct id.AccountID, amount types.Amount) error {
	t := now()
	_, err := s.mdb.NewUpdate(&accountModel{ID: acct.String()}).
		Filter(bson.M{"_id": acct.String()}).
		SetUpdate(bson.M{
			"$inc":         bson.M{"balance": amount.Int64()},
			"$set":         bson.M{"updated_at": t},
			"$setOnInsert": bson.M{"created_at": t},
		}).
		Upsert().
		Exec(ctx)
	return err
}

// debitAccount subtracts amount, matching only when the balance covers it.
func (s *Store) debitAccount(ctx context.Context, acct id.AccountID, amount types.Amount) error {
	res, err := s.mdb.NewUpdate((*accountModel)(nil)).
		Filter(bson.M{
			"_id":     acct.String(),
			"balance": bson.M{"$gte": amount.Int64()},
		}).
		SetUpdate(bson.M{
			"$inc": bson.M{"balance": -amount.Int64()},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: debit: %w", err)
	}
	if res.MatchedCount() == 0 {
		return gymledger.ErrInsufficientBalance
	}
	return nil
}

// upsertAccount sets the given fields on the account document, creating it
// on first touch.
func (s *Store) upsertAccount(ctx context.Context, acct id.AccountID, set bson.M) error {
	t := now()
	set["updated_at"] = t
	_, err := s.mdb.NewUpdate(&accountModel{ID: acct.String()}).
		Filter(bson.M{"_id": acct.String()}).
		SetUpdate(bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"created_at": t},
		}).
		Upsert().
		Exec(ctx)
	return err
}

// sessionDoc loads a raw session document.
func (s *Store) sessionDoc(ctx context.Context, sessionID int64) (*sessionModel, error) {
	var m sessionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": sessionID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gymledger.ErrSessionNotFound
		}
		return nil, fmt.Errorf("gymledger/mongo: get session: %w", err)
	}
	return &m, nil
}

// state loads the singleton gym_state document.
func (s *Store) state(ctx context.Context) (*stateModel, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gymledger.ErrStoreNotReady
		}
		return nil, fmt.Errorf("gymledger/mongo: load state: %w", err)
	}
	return &m, nil
}

// bumpState applies one update document to the singleton gym_state document.
func (s *Store) bumpState(ctx context.Context, update bson.M) error {
	res, err := s.mdb.NewUpdate((*stateModel)(nil)).
		Filter(bson.M{"_id": stateDocID}).
		SetUpdate(update).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gymledger/mongo: update state: %w", err)
	}
	if res.MatchedCount() == 0 {
		return gymledger.ErrStoreNotReady
	}
	return nil
}

// nextSeq increments and returns one of the id sequences on gym_state.
func (s *Store) nextSeq(ctx context.Context, field string) (int64, error) {
	if err := s.bumpState(ctx, bson.M{"$inc": bson.M{field: int64(1)}}); err != nil {
		return 0, err
	}
	st, err := s.state(ctx)
	if err != nil {
		return 0, err
	}
	switch field {
	case "challenge_seq":
		return st.ChallengeSeq, nil
	default:
		return st.SessionSeq, nil
	}
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all gym collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAccounts: {
			{Keys: bson.D{{Key: "membership_expiry", Value: 1}}},
		},
		colRoles: {
			{
				Keys:    bson.D{{Key: "account", Value: 1}, {Key: "role", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		colChallenges: {
			{Keys: bson.D{{Key: "created_by", Value: 1}}},
		},
		colSessions: {
			{Keys: bson.D{{Key: "trainer", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		colState: nil,
	}
}
