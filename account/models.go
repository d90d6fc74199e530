package account

import (
	"time"

	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/types"
)

// Account is the per-identity ledger record: a single fungible balance plus
// the auxiliary lifecycle state every program reads and writes.
type Account struct {
	types.Entity
	ID               id.AccountID `json:"id"`
	Balance          types.Amount `json:"balance"`
	MembershipExpiry time.Time    `json:"membership_expiry,omitzero"`
	ReferralBonus    types.Amount `json:"referral_bonus"`
	ActiveChallenge  int64        `json:"active_challenge"`
}

// MembershipActive reports whether the membership has not lapsed at now.
func (a *Account) MembershipActive(now time.Time) bool {
	return a.MembershipExpiry.After(now)
}

// RemainingTime returns how long the membership still runs at now, floored
// at zero.
func (a *Account) RemainingTime(now time.Time) time.Duration {
	if !a.MembershipExpiry.After(now) {
		return 0
	}
	return a.MembershipExpiry.Sub(now)
}

// Supply is the cumulative mint and burn totals. Minted minus Burned equals
// the sum of all balances at every observation point.
type Supply struct {
	Minted types.Amount `json:"minted"`
	Burned types.Amount `json:"burned"`
}

// Circulating is minted minus burned.
func (s Supply) Circulating() types.Amount {
	return s.Minted.Sub(s.Burned)
}
