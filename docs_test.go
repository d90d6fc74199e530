package gymledger_test

import (
	"context"
	"log"
	"log/slog"
	"testing"

	gymledger "github.com/xraph/gymledger"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/store/memory"
	"github.com/xraph/gymledger/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		manager := id.NewAccountID()

		// Initialize the gym engine
		g := gymledger.New(store,
			gymledger.WithLogger(slog.Default()),
			gymledger.WithBootstrapManager(manager),
		)

		// Start the engine
		ctx := context.Background()
		if err := g.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer g.Stop()

		// Enroll a member and fund their account
		alice := id.NewAccountID()
		if err := g.GrantRole(ctx, manager, alice, role.Member); err != nil {
			t.Fatal(err)
		}
		if err := g.Mint(ctx, manager, alice, gymledger.Units(500)); err != nil {
			t.Fatal(err)
		}

		// Buy a membership; the price is burned from alice's balance
		if err := g.PurchaseMembership(ctx, alice, member.TierMonthly); err != nil {
			t.Fatal(err)
		}

		remaining, err := g.RemainingTime(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("membership runs for another %s\n", remaining)

		// Open the issuance gateway: fund it, set a price, sell
		if err := g.Mint(ctx, manager, g.SaleAccount(), gymledger.Units(10_000)); err != nil {
			t.Fatal(err)
		}
		if err := g.SetTokenPrice(ctx, manager, gymledger.Units(2)); err != nil {
			t.Fatal(err)
		}

		tokens, err := g.Sell(ctx, alice, gymledger.Units(25))
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("alice bought %s tokens\n", tokens)
	})

	// Test Amount type examples
	t.Run("AmountExamples", func(t *testing.T) {
		// Constructor
		_ = types.Units(50)

		// Arithmetic
		a := types.Units(100)
		b := types.Units(30)
		_ = a.Add(b)  // 130
		_ = a.Sub(b)  // 70
		_ = a.Mul(3)  // 300
		_ = a.Div(b)  // 3, integer division
		_ = a.Mod(b)  // 10

		// Comparison
		if b.LessThan(a) {
			// b is less than a
		}

		// Formatting
		_ = a.String() // "100u"
	})
}
