package challenge

import (
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/types"
)

// None is the empty active-challenge slot. Challenge ids are assigned
// monotonically starting at 1.
const None int64 = 0

type Challenge struct {
	types.Entity
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Reward    types.Amount `json:"reward"`
	CreatedBy id.AccountID `json:"created_by"`
}
