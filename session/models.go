package session

import (
	"time"

	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/types"
)

// Session is a scheduled training session. Ids are assigned monotonically
// starting at 1; the participant list is ordered, append-only and not
// deduplicated (repeat bookings appear repeatedly).
type Session struct {
	types.Entity
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Date    time.Time    `json:"date"`
	Cost    types.Amount `json:"cost"`
	Trainer id.AccountID `json:"trainer"`
}

// Summary is the listing shape: id and name only.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
