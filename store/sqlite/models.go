package sqlite

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/gymledger/account"
	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/session"
	"github.com/xraph/gymledger/types"
)

// ==================== Account models ====================

type accountModel struct {
	grove.BaseModel `grove:"table:gym_accounts"`

	ID               string     `grove:"id,pk"`
	Balance          int64      `grove:"balance"`
	MembershipExpiry *time.Time `grove:"membership_expiry"`
	ReferralBonus    int64      `grove:"referral_bonus"`
	ActiveChallenge  int64      `grove:"active_challenge"`
	CreatedAt        time.Time  `grove:"created_at"`
	UpdatedAt        time.Time  `grove:"updated_at"`
}

func fromAccountModel(m *accountModel) (*account.Account, error) {
	acctID, err := id.ParseAccountID(m.ID)
	if err != nil {
		return nil, err
	}

	var expiry time.Time
	if m.MembershipExpiry != nil {
		expiry = *m.MembershipExpiry
	}

	return &account.Account{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:               acctID,
		Balance:          types.Amount(m.Balance),
		MembershipExpiry: expiry,
		ReferralBonus:    types.Amount(m.ReferralBonus),
		ActiveChallenge:  m.ActiveChallenge,
	}, nil
}

// ==================== Role models ====================

type roleModel struct {
	grove.BaseModel `grove:"table:gym_roles"`

	Account   string    `grove:"account,pk"`
	Role      string    `grove:"role,pk"`
	GrantedBy string    `grove:"granted_by"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toRoleModel(g *role.Grant) *roleModel {
	return &roleModel{
		Account:   g.Account.String(),
		Role:      string(g.Role),
		GrantedBy: g.GrantedBy.String(),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// ==================== Challenge models ====================

type challengeModel struct {
	grove.BaseModel `grove:"table:gym_challenges"`

	ID        int64     `grove:"id,pk"`
	Name      string    `grove:"name"`
	Reward    int64     `grove:"reward"`
	CreatedBy string    `grove:"created_by"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toChallengeModel(c *challenge.Challenge) *challengeModel {
	return &challengeModel{
		ID:        c.ID,
		Name:      c.Name,
		Reward:    c.Reward.Int64(),
		CreatedBy: c.CreatedBy.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromChallengeModel(m *challengeModel) (*challenge.Challenge, error) {
	createdBy, err := id.ParseAccountID(m.CreatedBy)
	if err != nil {
		return nil, err
	}

	return &challenge.Challenge{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        m.ID,
		Name:      m.Name,
		Reward:    types.Amount(m.Reward),
		CreatedBy: createdBy,
	}, nil
}

// ==================== Training session models ====================

type sessionModel struct {
	grove.BaseModel `grove:"table:gym_sessions"`

	ID        int64     `grove:"id,pk"`
	Name      string    `grove:"name"`
	Date      time.Time `grove:"date"`
	Cost      int64     `grove:"cost"`
	Trainer   string    `grove:"trainer"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toSessionModel(s *session.Session) *sessionModel {
	return &sessionModel{
		ID:        s.ID,
		Name:      s.Name,
		Date:      s.Date,
		Cost:      s.Cost.Int64(),
		Trainer:   s.Trainer.String(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func fromSessionModel(m *sessionModel) (*session.Session, error) {
	trainer, err := id.ParseAccountID(m.Trainer)
	if err != nil {
		return nil, err
	}

	return &session.Session{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:      m.ID,
		Name:    m.Name,
		Date:    m.Date,
		Cost:    types.Amount(m.Cost),
		Trainer: trainer,
	}, nil
}

type participantModel struct {
	grove.BaseModel `grove:"table:gym_session_participants"`

	SessionID int64     `grove:"session_id,pk"`
	Position  int64     `grove:"position,pk"`
	Account   string    `grove:"account"`
	CreatedAt time.Time `grove:"created_at"`
}

// ==================== State model ====================

// stateModel is the singleton row holding the pause flag, supply totals,
// sale position and id sequences.
type stateModel struct {
	grove.BaseModel `grove:"table:gym_state"`

	ID            int64     `grove:"id,pk"`
	Paused        bool      `grove:"paused"`
	Minted        int64     `grove:"minted"`
	Burned        int64     `grove:"burned"`
	SalePrice     int64     `grove:"sale_price"`
	SaleIssued    int64     `grove:"sale_issued"`
	SaleCollected int64     `grove:"sale_collected"`
	ChallengeSeq  int64     `grove:"challenge_seq"`
	SessionSeq    int64     `grove:"session_seq"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

const stateRowID = 1
