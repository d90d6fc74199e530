package role

import (
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/types"
)

// Role is a capability tag. Tags are independent of each other; an account
// may hold any combination and a privileged operation requires exactly the
// tag it names.
type Role string

const (
	Manager Role = "manager"
	Staff   Role = "staff"
	Member  Role = "member"
	Trainer Role = "trainer"
)

// All lists every known role tag.
func All() []Role {
	return []Role{Manager, Staff, Member, Trainer}
}

// Valid reports whether r is one of the known tags.
func (r Role) Valid() bool {
	switch r {
	case Manager, Staff, Member, Trainer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Grant records one account holding one role tag.
type Grant struct {
	types.Entity
	Account   id.AccountID `json:"account"`
	Role      Role         `json:"role"`
	GrantedBy id.AccountID `json:"granted_by"`
}
