package gymledger

import "github.com/xraph/gymledger/id"

// ID is the primary identifier type for all gym entities.
type ID = id.ID

// AccountID identifies a ledger account.
type AccountID = id.AccountID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
