package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/gymledger"
	"github.com/xraph/gymledger/account"
	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/sale"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/store"
	"github.com/xraph/gymledger/types"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Account storage
	accounts map[string]*account.Account
	supply   account.Supply

	// Role storage
	roles map[string]map[role.Role]*role.Grant

	// Challenge storage
	challenges   map[int64]*challenge.Challenge
	challengeSeq int64

	// Training session storage
	sessions     map[int64]*session.Session
	participants map[int64][]id.AccountID
	sessionSeq   int64

	// Issuance gateway storage
	position sale.Position

	paused bool
	closed bool
}

func New() *Store {
	return &Store{
		accounts:     make(map[string]*account.Account),
		roles:        make(map[string]map[role.Role]*role.Grant),
		challenges:   make(map[int64]*challenge.Challenge),
		sessions:     make(map[int64]*session.Session),
		participants: make(map[int64][]id.AccountID),
	}
}

// account returns the record for acct, creating a zero-balance one on first
// touch. Callers must hold the write lock.
func (s *Store) account(acct id.AccountID) *account.Account {
	key := acct.String()
	if a, ok := s.accounts[key]; ok {
		return a
	}
	a := &account.Account{
		Entity: types.NewEntity(),
		ID:     acct,
	}
	s.accounts[key] = a
	return a
}

// Account Store implementation
func (s *Store) GetAccount(_ context.Context, acct id.AccountID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[acct.String()]; ok {
		copied := *a
		return &copied, nil
	}
	return &account.Account{Entity: types.NewEntity(), ID: acct}, nil
}

func (s *Store) Mint(_ context.Context, to id.AccountID, amount types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(to)
	a.Balance = a.Balance.Add(amount)
	a.Touch()
	s.supply.Minted = s.supply.Minted.Add(amount)
	return nil
}

func (s *Store) Burn(_ context.Context, from id.AccountID, amount types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(from)
	if a.Balance.LessThan(amount) {
		return gymledger.ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	a.Touch()
	s.supply.Burned = s.supply.Burned.Add(amount)
	return nil
}

func (s *Store) Transfer(_ context.Context, from, to id.AccountID, amount types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.account(from)
	if src.Balance.LessThan(amount) {
		return gymledger.ErrInsufficientBalance
	}
	dst := s.account(to)
	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)
	src.Touch()
	dst.Touch()
	return nil
}

func (s *Store) BalanceOf(_ context.Context, acct id.AccountID) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[acct.String()]; ok {
		return a.Balance, nil
	}
	return 0, nil
}

func (s *Store) Supply(_ context.Context) (account.Supply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.supply, nil
}

func (s *Store) MembershipExpiry(_ context.Context, acct id.AccountID) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[acct.String()]; ok {
		return a.MembershipExpiry, nil
	}
	return time.Time{}, nil
}

func (s *Store) SetMembershipExpiry(_ context.Context, acct id.AccountID, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(acct)
	a.MembershipExpiry = expiry
	a.Touch()
	return nil
}

func (s *Store) ReferralBonus(_ context.Context, acct id.AccountID) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[acct.String()]; ok {
		return a.ReferralBonus, nil
	}
	return 0, nil
}

func (s *Store) AddReferralBonus(_ context.Context, acct id.AccountID, amount types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(acct)
	a.ReferralBonus = a.ReferralBonus.Add(amount)
	a.Touch()
	return nil
}

func (s *Store) ActiveChallenge(_ context.Context, acct id.AccountID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[acct.String()]; ok {
		return a.ActiveChallenge, nil
	}
	return challenge.None, nil
}

func (s *Store) SetActiveChallenge(_ context.Context, acct id.AccountID, challengeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(acct)
	a.ActiveChallenge = challengeID
	a.Touch()
	return nil
}

// Role Store implementation
func (s *Store) GrantRole(_ context.Context, g *role.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := g.Account.String()
	if s.roles[key] == nil {
		s.roles[key] = make(map[role.Role]*role.Grant)
	}
	s.roles[key][g.Role] = g
	return nil
}

func (s *Store) RevokeRole(_ context.Context, acct id.AccountID, r role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if grants, ok := s.roles[acct.String()]; ok {
		delete(grants, r)
	}
	return nil
}

func (s *Store) HasRole(_ context.Context, acct id.AccountID, r role.Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grants, ok := s.roles[acct.String()]
	if !ok {
		return false, nil
	}
	_, held := grants[r]
	return held, nil
}

func (s *Store) ListRoles(_ context.Context, acct id.AccountID) ([]role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grants := s.roles[acct.String()]
	result := make([]role.Role, 0, len(grants))
	for _, r := range role.All() {
		if _, held := grants[r]; held {
			result = append(result, r)
		}
	}
	return result, nil
}

// Challenge Store implementation
func (s *Store) CreateChallenge(_ context.Context, c *challenge.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challengeSeq++
	c.ID = s.challengeSeq
	s.challenges[c.ID] = c
	return nil
}

func (s *Store) GetChallenge(_ context.Context, challengeID int64) (*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.challenges[challengeID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gymledger.ErrChallengeNotFound
}

func (s *Store) ChallengeCount(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.challengeSeq, nil
}

// Training session Store implementation
func (s *Store) CreateSession(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionSeq++
	sess.ID = s.sessionSeq
	s.sessions[sess.ID] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID int64) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[sessionID]; ok {
		copied := *sess
		return &copied, nil
	}
	return nil, gymledger.ErrSessionNotFound
}

func (s *Store) SessionCount(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessionSeq, nil
}

func (s *Store) ListSessions(_ context.Context) ([]session.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]session.Summary, 0, s.sessionSeq)
	for sid := int64(1); sid <= s.sessionSeq; sid++ {
		if sess, ok := s.sessions[sid]; ok {
			result = append(result, session.Summary{ID: sess.ID, Name: sess.Name})
		}
	}
	return result, nil
}

func (s *Store) AddParticipant(_ context.Context, sessionID int64, acct id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return gymledger.ErrSessionNotFound
	}
	s.participants[sessionID] = append(s.participants[sessionID], acct)
	return nil
}

func (s *Store) Participants(_ context.Context, sessionID int64) ([]id.AccountID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, gymledger.ErrSessionNotFound
	}
	list := s.participants[sessionID]
	result := make([]id.AccountID, len(list))
	copy(result, list)
	return result, nil
}

// Issuance gateway Store implementation
func (s *Store) SalePosition(_ context.Context) (sale.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.position, nil
}

func (s *Store) SetSalePrice(_ context.Context, price types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.position.Price = price
	return nil
}

func (s *Store) RecordSale(_ context.Context, tokens, payment types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.position.TotalIssued = s.position.TotalIssued.Add(tokens)
	s.position.Collected = s.position.Collected.Add(payment)
	return nil
}

func (s *Store) DrainProceeds(_ context.Context) (types.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drained := s.position.Collected
	s.position.Collected = 0
	return drained, nil
}

// Pause gate
func (s *Store) Paused(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.paused, nil
}

func (s *Store) SetPaused(_ context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = paused
	return nil
}

// Core methods
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return gymledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
