// Package gymledger provides an embeddable unit-of-account ledger engine for
// gym facilities.
//
// Gymledger is designed as a library, not a service. Import it directly into
// your Go application. A single fungible balance per account is the currency
// for every activity in the facility:
//
//   - Role directory with Manager, Staff, Member and Trainer capability tags
//   - Balance ledger with mint, burn, transfer and a global pause interlock
//   - Membership lifecycle with a tiered price table and stacking expiry
//   - Referral, challenge and training-session incentive programs
//   - Token issuance gateway selling pre-funded balance for outside payment
//
// # Quick Start
//
// Create a gym instance with your preferred store:
//
//	import (
//	    gymledger "github.com/xraph/gymledger"
//	    "github.com/xraph/gymledger/store/memory"
//	)
//
//	manager := id.NewAccountID()
//
//	g := gymledger.New(memory.New(),
//	    gymledger.WithBootstrapManager(manager),
//	)
//
//	if err := g.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Stop()
//
// # Core Concepts
//
// Roles gate every privileged operation. Only managers administer the
// directory:
//
//	err := g.GrantRole(ctx, manager, alice, role.Member)
//
// Memberships burn balance and extend the member's expiry. Repeated
// purchases stack, so renewing early never loses paid-for time:
//
//	err := g.PurchaseMembership(ctx, alice, member.TierMonthly)
//
// The issuance gateway sells from its own pre-funded account. Fund it with
// a manager mint, set a price, and members buy in:
//
//	g.Mint(ctx, manager, g.SaleAccount(), gymledger.Units(10_000))
//	g.SetTokenPrice(ctx, manager, gymledger.Units(2))
//	tokens, err := g.Sell(ctx, alice, gymledger.Units(25))
//
// All balance arithmetic uses integer units. Division in the sale path
// rounds down and the gateway keeps the full payment.
//
// # TypeID
//
// Accounts use TypeID for globally unique, type-safe identifiers:
//
//	acct_01h2xcejqtf2nbrexx3vqjhp41
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package gymledger
