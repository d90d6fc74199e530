package mongo

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

	ID               string     `grove:"id,pk"             bson:"_id"`
	Balance          int64      `grove:"balance"           bson:"balance"`
	MembershipExpiry *time.Time `grove:"membership_expiry" bson:"membership_expiry,omitempty"`
	ReferralBonus    int64      `grove:"referral_bonus"    bson:"referral_bonus"`
	ActiveChallenge  int64      `grove:"active_challenge"  bson:"active_challenge"`
	CreatedAt        time.Time  `grove:"created_at"        bson:"created_at"`
	UpdatedAt        time.Time  `grove:"updated_at"        bson:"updated_at"`
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

// Role grants key on "account:role" so each grant is one document.
type roleModel struct {
	grove.BaseModel `grove:"table:gym_roles"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Account   string    `grove:"account"    bson:"account"`
	Role      string    `grove:"role"       bson:"role"`
	GrantedBy string    `grove:"granted_by" bson:"granted_by"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}

func roleKey(acct id.AccountID, r role.Role) string {
	return acct.String() + ":" + string(r)
}

func toRoleModel(g *role.Grant) *roleModel {
	return &roleModel{
		ID:        roleKey(g.Account, g.Role),
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

	ID        int64     `grove:"id,pk"      bson:"_id"`
	Name      string    `grove:"name"       bson:"name"`
	Reward    int64     `grove:"reward"     bson:"reward"`
	CreatedBy string    `grove:"created_by" bson:"created_by"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
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

// sessionModel embeds the ordered participant list; $push appends preserve
// both order and duplicates.
type sessionModel struct {
	grove.BaseModel `grove:"table:gym_sessions"`

	ID           int64     `grove:"id,pk"        bson:"_id"`
	Name         string    `grove:"name"         bson:"name"`
	Date         time.Time `grove:"date"         bson:"date"`
	Cost         int64     `grove:"cost"         bson:"cost"`
	Trainer      string    `grove:"trainer"      bson:"trainer"`
	Participants []string  `grove:"participants" bson:"participants"`
	CreatedAt    time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"   bson:"updated_at"`
}

func toSessionModel(s *session.Session) *sessionModel {
	return &sessionModel{
		ID:           s.ID,
		Name:         s.Name,
		Date:         s.Date,
		Cost:         s.Cost.Int64(),
		Trainer:      s.Trainer.String(),
		Participants: []string{},
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
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

// ==================== State model ====================

// stateModel is the singleton document holding the pause flag, supply
// totals, sale position and id sequences.
type stateModel struct {
	grove.BaseModel `grove:"table:gym_state"`

	ID            int64     `grove:"id,pk"          bson:"_id"`
	Paused        bool      `grove:"paused"         bson:"paused"`
	Minted        int64     `grove:"minted"         bson:"minted"`
	Burned        int64     `grove:"burned"         bson:"burned"`
	SalePrice     int64     `grove:"sale_price"     bson:"sale_price"`
	SaleIssued    int64     `grove:"sale_issued"    bson:"sale_issued"`
	SaleCollected int64     `grove:"sale_collected" bson:"sale_collected"`
	ChallengeSeq  int64     `grove:"challenge_seq"  bson:"challenge_seq"`
	SessionSeq    int64     `grove:"session_seq"    bson:"session_seq"`
	UpdatedAt     time.Time `grove:"updated_at"     bson:"updated_at"`
}

const stateDocID = int64(1)
