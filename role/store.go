package role

import (
	"context"

	"github.com/xraph/gymledger/id"
)

type Store interface {
	Grant(ctx context.Context, g *Grant) error
	Revoke(ctx context.Context, account id.AccountID, r Role) error
	Has(ctx context.Context, account id.AccountID, r Role) (bool, error)
	List(ctx context.Context, account id.AccountID) ([]Role, error)
}
