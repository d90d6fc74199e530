package extension

import (
	"context"
	"testing"

	"github.com/xraph/gymledger/store/memory"
	"github.com/xraph/gymledger/types"
)

func TestSeedSalePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesConfiguredPrice", func(t *testing.T) {
		st := memory.New()
		e := &Extension{config: Config{SalePrice: 3}, store: st}

		if err := e.seedSalePrice(ctx); err != nil {
			t.Fatal(err)
		}

		pos, err := st.SalePosition(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if pos.Price != types.Amount(3) {
			t.Fatalf("price = %v, want 3", pos.Price)
		}
	})

	t.Run("NoopWhenUnset", func(t *testing.T) {
		st := memory.New()
		e := &Extension{config: Config{}, store: st}

		if err := e.seedSalePrice(ctx); err != nil {
			t.Fatal(err)
		}

		pos, err := st.SalePosition(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if pos.Price != 0 {
			t.Fatalf("price = %v, want 0", pos.Price)
		}
	})
}

func TestBuildGroveStoreRequiresDB(t *testing.T) {
	e := &Extension{config: Config{GroveDriver: "sqlite"}}
	if _, err := e.buildGroveStore(); err == nil {
		t.Fatal("expected error when no grove.DB is provided")
	}
}
