package gymledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gymledger "github.com/xraph/gymledger"
	"github.com/xraph/gymledger/challenge"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/role"
	"github.com/xraph/gymledger/store/memory"
)

// testClock is a manual time source for expiry and scheduling logic.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newGym builds a started engine on a memory store with one bootstrap
// manager and a controllable clock.
func newGym(t *testing.T) (*gymledger.Gym, id.AccountID, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	manager := id.NewAccountID()

	g := gymledger.New(memory.New(),
		gymledger.WithClock(clock.Now),
		gymledger.WithBootstrapManager(manager),
	)
	if err := g.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = g.Stop() })

	return g, manager, clock
}

// grant is a test helper for manager role grants.
func grant(t *testing.T, g *gymledger.Gym, manager, acct id.AccountID, r role.Role) {
	t.Helper()
	if err := g.GrantRole(context.Background(), manager, acct, r); err != nil {
		t.Fatalf("grant %s: %v", r, err)
	}
}

func TestRoleDirectory(t *testing.T) {
	ctx := context.Background()
	g, manager, _ := newGym(t)
	alice := id.NewAccountID()

	t.Run("BootstrapManager", func(t *testing.T) {
		held, err := g.HasRole(ctx, manager, role.Manager)
		if err != nil {
			t.Fatal(err)
		}
		if !held {
			t.Fatal("bootstrap manager not granted")
		}
	})

	t.Run("GrantAndRevoke", func(t *testing.T) {
		grant(t, g, manager, alice, role.Member)
		grant(t, g, manager, alice, role.Trainer)

		roles, err := g.Roles(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if len(roles) != 2 {
			t.Fatalf("roles = %v, want two tags", roles)
		}

		if err := g.RevokeRole(ctx, manager, alice, role.Trainer); err != nil {
			t.Fatal(err)
		}
		held, err := g.HasRole(ctx, alice, role.Trainer)
		if err != nil {
			t.Fatal(err)
		}
		if held {
			t.Fatal("trainer tag survived revoke")
		}
	})

	t.Run("RevokeIdempotent", func(t *testing.T) {
		if err := g.RevokeRole(ctx, manager, alice, role.Trainer); err != nil {
			t.Fatalf("second revoke: %v", err)
		}
	})

	t.Run("NonManagerCannotGrant", func(t *testing.T) {
		err := g.GrantRole(ctx, alice, id.NewAccountID(), role.Member)
		if !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("err = %v, want ErrMissingRole", err)
		}
	})

	t.Run("NilAccountRejected", func(t *testing.T) {
		err := g.GrantRole(ctx, manager, id.Nil, role.Member)
		if !errors.Is(err, gymledger.ErrNilAccount) {
			t.Fatalf("err = %v, want ErrNilAccount", err)
		}
	})

	t.Run("UnknownRoleRejected", func(t *testing.T) {
		err := g.GrantRole(ctx, manager, alice, role.Role("janitor"))
		if !errors.Is(err, gymledger.ErrUnknownRole) {
			t.Fatalf("err = %v, want ErrUnknownRole", err)
		}
	})

	t.Run("ManagerCanRevokeOwnTag", func(t *testing.T) {
		if err := g.RevokeRole(ctx, manager, manager, role.Manager); err != nil {
			t.Fatal(err)
		}
		err := g.GrantRole(ctx, manager, alice, role.Member)
		if !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("err after self-revoke = %v, want ErrMissingRole", err)
		}
	})
}

func TestMintAndSupply(t *testing.T) {
	ctx := context.Background()
	g, manager, _ := newGym(t)
	alice := id.NewAccountID()
	bob := id.NewAccountID()

	if err := g.Mint(ctx, manager, alice, gymledger.Units(500)); err != nil {
		t.Fatal(err)
	}
	if err := g.Mint(ctx, manager, bob, gymledger.Units(200)); err != nil {
		t.Fatal(err)
	}

	balance, err := g.BalanceOf(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if balance != gymledger.Units(500) {
		t.Fatalf("balance = %v, want 500", balance)
	}

	supply, err := g.Supply(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if supply.Minted != gymledger.Units(700) || supply.Burned != 0 {
		t.Fatalf("supply = %+v, want minted 700 burned 0", supply)
	}
	if supply.Circulating() != gymledger.Units(700) {
		t.Fatalf("circulating = %v, want 700", supply.Circulating())
	}

	t.Run("NonManagerCannotMint", func(t *testing.T) {
		err := g.Mint(ctx, alice, alice, gymledger.Units(1))
		if !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("err = %v, want ErrMissingRole", err)
		}
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		err := g.Mint(ctx, manager, alice, gymledger.Units(0))
		if !errors.Is(err, gymledger.ErrInvalidAmount) {
			t.Fatalf("err = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("UnknownAccountReadsZero", func(t *testing.T) {
		balance, err := g.BalanceOf(ctx, id.NewAccountID())
		if err != nil {
			t.Fatal(err)
		}
		if balance != 0 {
			t.Fatalf("balance = %v, want 0", balance)
		}
	})
}

func TestPauseGate(t *testing.T) {
	ctx := context.Background()
	g, manager, _ := newGym(t)
	alice := id.NewAccountID()
	grant(t, g, manager, alice, role.Member)
	if err := g.Mint(ctx, manager, alice, gymledger.Units(1000)); err != nil {
		t.Fatal(err)
	}

	t.Run("NonManagerCannotPause", func(t *testing.T) {
		err := g.Pause(ctx, alice)
		if !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("err = %v, want ErrMissingRole", err)
		}
	})

	if err := g.Pause(ctx, manager); err != nil {
		t.Fatal(err)
	}
	paused, err := g.Paused(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !paused {
		t.Fatal("not paused after Pause")
	}

	t.Run("BalanceMutatingOpsRefuse", func(t *testing.T) {
		if err := g.Mint(ctx, manager, alice, gymledger.Units(1)); !errors.Is(err, gymledger.ErrPaused) {
			t.Fatalf("mint err = %v, want ErrPaused", err)
		}
		if err := g.PurchaseMembership(ctx, alice, member.TierMonthly); !errors.Is(err, gymledger.ErrPaused) {
			t.Fatalf("purchase err = %v, want ErrPaused", err)
		}
		if _, err := g.Sell(ctx, alice, gymledger.Units(10)); !errors.Is(err, gymledger.ErrPaused) {
			t.Fatalf("sell err = %v, want ErrPaused", err)
		}
	})

	t.Run("ReadsAndAdminStillWork", func(t *testing.T) {
		if _, err := g.BalanceOf(ctx, alice); err != nil {
			t.Fatal(err)
		}
		// Role administration is not a balance mutation.
		grant(t, g, manager, alice, role.Staff)
	})

	t.Run("UnpauseRestores", func(t *testing.T) {
		if err := g.Unpause(ctx, manager); err != nil {
			t.Fatal(err)
		}
		if err := g.PurchaseMembership(ctx, alice, member.TierMonthly); err != nil {
			t.Fatal(err)
		}
		remaining, err := g.RemainingTime(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if remaining != 30*24*time.Hour {
			t.Fatalf("remaining = %v, want 720h", remaining)
		}
	})
}

func TestMembershipLifecycle(t *testing.T) {
	ctx := context.Background()
	g, manager, clock := newGym(t)
	alice := id.NewAccountID()
	grant(t, g, manager, alice, role.Member)
	if err := g.Mint(ctx, manager, alice, gymledger.Units(1000)); err != nil {
		t.Fatal(err)
	}

	t.Run("PurchaseBurnsPrice", func(t *testing.T) {
		if err := g.PurchaseMembership(ctx, alice, member.TierMonthly); err != nil {
			t.Fatal(err)
		}

		balance, err := g.BalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != gymledger.Units(950) {
			t.Fatalf("balance = %v, want 950", balance)
		}

		supply, err := g.Supply(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if supply.Burned != gymledger.Units(50) {
			t.Fatalf("burned = %v, want 50", supply.Burned)
		}
	})

	t.Run("RepeatPurchaseStacks", func(t *testing.T) {
		if err := g.PurchaseMembership(ctx, alice, member.TierMonthly); err != nil {
			t.Fatal(err)
		}
		remaining, err := g.RemainingTime(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if remaining != 60*24*time.Hour {
			t.Fatalf("remaining = %v, want 1440h", remaining)
		}
	})

	t.Run("ExpiryCountsDown", func(t *testing.T) {
		clock.Advance(10 * 24 * time.Hour)
		remaining, err := g.RemainingTime(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if remaining != 50*24*time.Hour {
			t.Fatalf("remaining = %v, want 1200h", remaining)
		}
	})

	t.Run("LapsedMembershipRestartsFromNow", func(t *testing.T) {
		clock.Advance(200 * 24 * time.Hour)
		remaining, err := g.RemainingTime(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if remaining != 0 {
			t.Fatalf("remaining after lapse = %v, want 0", remaining)
		}

		if err := g.PurchaseMembership(ctx, alice, member.TierQuarterly); err != nil {
			t.Fatal(err)
		}
		remaining, err = g.RemainingTime(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if remaining != 90*24*time.Hour {
			t.Fatalf("remaining = %v, want 2160h", remaining)
		}
	})

	t.Run("UnknownTier", func(t *testing.T) {
		err := g.PurchaseMembership(ctx, alice, member.Tier("lifetime"))
		if !errors.Is(err, gymledger.ErrUnknownTier) {
			t.Fatalf("err = %v, want ErrUnknownTier", err)
		}
	})

	t.Run("NonMemberCannotPurchase", func(t *testing.T) {
		err := g.PurchaseMembership(ctx, manager, member.TierMonthly)
		if !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("err = %v, want ErrMissingRole", err)
		}
	})

	t.Run("InsufficientBalanceLeavesExpiryAlone", func(t *testing.T) {
		bob := id.NewAccountID()
		grant(t, g, manager, bob, role.Member)
		if err := g.Mint(ctx, manager, bob, gymledger.Units(100)); err != nil {
			t.Fatal(err)
		}
		if err := g.PurchaseMembership(ctx, bob, member.TierMonthly); err != nil {
			t.Fatal(err)
		}
		before, err := g.RemainingTime(ctx, bob)
		if err != nil {
			t.Fatal(err)
		}

		// 50u left cannot cover the annual tier.
		err = g.PurchaseMembership(ctx, bob, member.TierAnnual)
		if !errors.Is(err, gymledger.ErrInsufficientBalance) {
			t.Fatalf("err = %v, want ErrInsufficientBalance", err)
		}

		after, err := g.RemainingTime(ctx, bob)
		if err != nil {
			t.Fatal(err)
		}
		if after != before {
			t.Fatalf("expiry moved on failed purchase: %v -> %v", before, after)
		}

		balance, err := g.BalanceOf(ctx, bob)
		if err != nil {
			t.Fatal(err)
		}
		if balance != gymledger.Units(50) {
			t.Fatalf("balance = %v, want 50", balance)
		}
	})
}

func TestPayStaff(t *testing.T) {
	ctx := context.Background()
	g, manager, _ := newGym(t)
	carol := id.NewAccountID()
	grant(t, g, manager, carol, role.Staff)
	if err := g.Mint(ctx, manager, manager, gymledger.Units(300)); err != nil {
		t.Fatal(err)
	}

	if err := g.PayStaff(ctx, manager, carol, gymledger.Units(120)); err != nil {
		t.Fatal(err)
	}

	managerBalance, err := g.BalanceOf(ctx, manager)
	if err != nil {
		t.Fatal(err)
	}
	carolBalance, err := g.BalanceOf(ctx, carol)
	if err != nil {
		t.Fatal(err)
	}
	if managerBalance != gymledger.Units(180) || carolBalance != gymledger.Units(120) {
		t.Fatalf("balances = %v/%v, want 180/120", managerBalance, carolBalance)
	}

	// Transfers move balance without touching supply totals.
	supply, err := g.Supply(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if supply.Minted != gymledger.Units(300) || supply.Burned != 0 {
		t.Fatalf("supply = %+v, want minted 300 burned 0", supply)
	}

	t.Run("RecipientMustBeStaff", func(t *testing.T) {
		err := g.PayStaff(ctx, manager, id.NewAccountID(), gymledger.Units(10))
		if !errors.Is(err, gymledger.ErrRecipientNotStaff) {
			t.Fatalf("err = %v, want ErrRecipientNotStaff", err)
		}
	})

	t.Run("CallerBalanceMustCover", func(t *testing.T) {
		err := g.PayStaff(ctx, manager, carol, gymledger.Units(10_000))
		if !errors.Is(err, gymledger.ErrInsufficientBalance) {
			t.Fatalf("err = %v, want ErrInsufficientBalance", err)
		}
	})
}

func TestReferralProgram(t *testing.T) {
	ctx := context.Background()
	g, manager, clock := newGym(t)
	alice := id.NewAccountID()
	grant(t, g, manager, alice, role.Member)
	if err := g.Mint(ctx, manager, alice, gymledger.Units(100)); err != nil {
		t.Fatal(err)
	}

	t.Run("LapsedReferrerRejected", func(t *testing.T) {
		err := g.RewardReferral(ctx, manager, alice)
		if !errors.Is(err, gymledger.ErrMembershipLapsed) {
			t.Fatalf("err = %v, want ErrMembershipLapsed", err)
		}
	})

	if err := g.PurchaseMembership(ctx, alice, member.TierMonthly); err != nil {
		t.Fatal(err)
	}

	t.Run("RewardMintsAndAccumulates", func(t *testing.T) {
		if err := g.RewardReferral(ctx, manager, alice); err != nil {
			t.Fatal(err)
		}
		if err := g.RewardReferral(ctx, manager, alice); err != nil {
			t.Fatal(err)
		}

		bonus, err := g.ReferralBonus(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if bonus != gymledger.Units(20) {
			t.Fatalf("bonus = %v, want 20", bonus)
		}

		balance, err := g.BalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != gymledger.Units(70) {
			t.Fatalf("balance = %v, want 70", balance)
		}
	})

	t.Run("ExpiryEndsEligibility", func(t *testing.T) {
		clock.Advance(31 * 24 * time.Hour)
		err := g.RewardReferral(ctx, manager, alice)
		if !errors.Is(err, gymledger.ErrMembershipLapsed) {
			t.Fatalf("err = %v, want ErrMembershipLapsed", err)
		}
	})
}

func TestChallenges(t *testing.T) {
	ctx := context.Background()
	g, manager, _ := newGym(t)
	alice := id.NewAccountID()
	grant(t, g, manager, alice, role.Member)

	t.Run("IDsAreMonotonic", func(t *testing.T) {
		first, err := g.CreateChallenge(ctx, manager, "30 day plank", gymledger.Units(25))
		if err != nil {
			t.Fatal(err)
		}
		second, err := g.CreateChallenge(ctx, manager, "10k steps", gymledger.Units(15))
		if err != nil {
			t.Fatal(err)
		}
		if first.ID != 1 || second.ID != 2 {
			t.Fatalf("ids = %d, %d, want 1, 2", first.ID, second.ID)
		}

		count, err := g.ChallengeCount(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if count != 2 {
			t.Fatalf("count = %d, want 2", count)
		}
	})

	t.Run("RegisterUnknownChallenge", func(t *testing.T) {
		err := g.RegisterForChallenge(ctx, alice, 99)
		if !errors.Is(err, gymledger.ErrChallengeNotFound) {
			t.Fatalf("err = %v, want ErrChallengeNotFound", err)
		}
	})

	t.Run("RegistrationOverwritesSlot", func(t *testing.T) {
		if err := g.RegisterForChallenge(ctx, alice, 1); err != nil {
			t.Fatal(err)
		}
		if err := g.RegisterForChallenge(ctx, alice, 2); err != nil {
			t.Fatal(err)
		}
		active, err := g.ActiveChallenge(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if active != 2 {
			t.Fatalf("active = %d, want 2", active)
		}
	})

	t.Run("CompletionPaysOnce", func(t *testing.T) {
		if err := g.CompleteChallenge(ctx, alice); err != nil {
			t.Fatal(err)
		}

		balance, err := g.BalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != gymledger.Units(15) {
			t.Fatalf("balance = %v, want 15", balance)
		}

		active, err := g.ActiveChallenge(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if active != challenge.None {
			t.Fatalf("active = %d, want cleared slot", active)
		}

		err = g.CompleteChallenge(ctx, alice)
		if !errors.Is(err, gymledger.ErrNoActiveChallenge) {
			t.Fatalf("second completion err = %v, want ErrNoActiveChallenge", err)
		}
	})

	t.Run("NonManagerCannotCreate", func(t *testing.T) {
		_, err := g.CreateChallenge(ctx, alice, "pushups", gymledger.Units(5))
		if !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("err = %v, want ErrMissingRole", err)
		}
	})
}

func TestTrainingSessions(t *testing.T) {
	ctx := context.Background()
	g, manager, clock := newGym(t)
	alice := id.NewAccountID()
	trent := id.NewAccountID()
	grant(t, g, manager, alice, role.Member)
	grant(t, g, manager, trent, role.Trainer)
	if err := g.Mint(ctx, manager, alice, gymledger.Units(100)); err != nil {
		t.Fatal(err)
	}

	t.Run("DateMustBeFuture", func(t *testing.T) {
		_, err := g.CreateTrainingSession(ctx, trent, "spin class", clock.Now(), gymledger.Units(30))
		if !errors.Is(err, gymledger.ErrSessionNotFuture) {
			t.Fatalf("err = %v, want ErrSessionNotFuture", err)
		}
	})

	date := clock.Now().Add(48 * time.Hour)
	s, err := g.CreateTrainingSession(ctx, trent, "spin class", date, gymledger.Units(30))
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != 1 {
		t.Fatalf("session id = %d, want 1", s.ID)
	}

	t.Run("BookingBurnsCost", func(t *testing.T) {
		if err := g.RegisterForTrainingSession(ctx, alice, s.ID); err != nil {
			t.Fatal(err)
		}
		balance, err := g.BalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != gymledger.Units(70) {
			t.Fatalf("balance = %v, want 70", balance)
		}
	})

	t.Run("RepeatBookingPaysAgain", func(t *testing.T) {
		if err := g.RegisterForTrainingSession(ctx, alice, s.ID); err != nil {
			t.Fatal(err)
		}
		participants, err := g.Participants(ctx, s.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(participants) != 2 || !participants[0].Equal(alice) || !participants[1].Equal(alice) {
			t.Fatalf("participants = %v, want alice twice", participants)
		}
		balance, err := g.BalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != gymledger.Units(40) {
			t.Fatalf("balance = %v, want 40", balance)
		}
	})

	t.Run("UnknownSession", func(t *testing.T) {
		err := g.RegisterForTrainingSession(ctx, alice, 42)
		if !errors.Is(err, gymledger.ErrSessionNotFound) {
			t.Fatalf("err = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("InsufficientBalanceDoesNotBook", func(t *testing.T) {
		expensive, err := g.CreateTrainingSession(ctx, trent, "private coaching", date, gymledger.Units(500))
		if err != nil {
			t.Fatal(err)
		}
		err = g.RegisterForTrainingSession(ctx, alice, expensive.ID)
		if !errors.Is(err, gymledger.ErrInsufficientBalance) {
			t.Fatalf("err = %v, want ErrInsufficientBalance", err)
		}
		participants, err := g.Participants(ctx, expensive.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(participants) != 0 {
			t.Fatalf("participants = %v, want none", participants)
		}
	})

	t.Run("ListSummaries", func(t *testing.T) {
		list, err := g.ListTrainingSessions(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[0].ID != 1 || list[1].Name != "private coaching" {
			t.Fatalf("list = %v", list)
		}
	})

	t.Run("FreeSessionAllowed", func(t *testing.T) {
		free, err := g.CreateTrainingSession(ctx, trent, "open gym", date, gymledger.Units(0))
		if err != nil {
			t.Fatal(err)
		}
		if err := g.RegisterForTrainingSession(ctx, alice, free.ID); err != nil {
			t.Fatal(err)
		}
	})
}

func TestIssuanceGateway(t *testing.T) {
	ctx := context.Background()
	g, manager, _ := newGym(t)
	alice := id.NewAccountID()

	t.Run("NoPriceNoSale", func(t *testing.T) {
		_, err := g.Sell(ctx, alice, gymledger.Units(10))
		if !errors.Is(err, gymledger.ErrInvalidPrice) {
			t.Fatalf("err = %v, want ErrInvalidPrice", err)
		}
	})

	if err := g.SetTokenPrice(ctx, manager, gymledger.Units(3)); err != nil {
		t.Fatal(err)
	}

	t.Run("UnfundedGatewayRefuses", func(t *testing.T) {
		_, err := g.Sell(ctx, alice, gymledger.Units(10))
		if !errors.Is(err, gymledger.ErrInsufficientBalance) {
			t.Fatalf("err = %v, want ErrInsufficientBalance", err)
		}
	})

	if err := g.Mint(ctx, manager, g.SaleAccount(), gymledger.Units(1000)); err != nil {
		t.Fatal(err)
	}

	t.Run("SaleRoundsDownAndKeepsFullPayment", func(t *testing.T) {
		tokens, err := g.Sell(ctx, alice, gymledger.Units(10))
		if err != nil {
			t.Fatal(err)
		}
		if tokens != gymledger.Units(3) {
			t.Fatalf("tokens = %v, want 3", tokens)
		}

		balance, err := g.BalanceOf(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		if balance != gymledger.Units(3) {
			t.Fatalf("buyer balance = %v, want 3", balance)
		}

		pos, err := g.SalePosition(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if pos.TotalIssued != gymledger.Units(3) || pos.Collected != gymledger.Units(10) {
			t.Fatalf("position = %+v, want issued 3 collected 10", pos)
		}

		funded, err := g.BalanceOf(ctx, g.SaleAccount())
		if err != nil {
			t.Fatal(err)
		}
		if funded != gymledger.Units(997) {
			t.Fatalf("gateway balance = %v, want 997", funded)
		}
	})

	t.Run("SalesDoNotMint", func(t *testing.T) {
		supply, err := g.Supply(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if supply.Minted != gymledger.Units(1000) || supply.Burned != 0 {
			t.Fatalf("supply = %+v, want minted 1000 burned 0", supply)
		}
	})

	t.Run("PaymentBelowPriceBuysNothing", func(t *testing.T) {
		_, err := g.Sell(ctx, alice, gymledger.Units(2))
		if !errors.Is(err, gymledger.ErrInvalidAmount) {
			t.Fatalf("err = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("WithdrawDrainsOnce", func(t *testing.T) {
		drained, err := g.Withdraw(ctx, manager)
		if err != nil {
			t.Fatal(err)
		}
		if drained != gymledger.Units(10) {
			t.Fatalf("drained = %v, want 10", drained)
		}

		_, err = g.Withdraw(ctx, manager)
		if !errors.Is(err, gymledger.ErrNoProceeds) {
			t.Fatalf("second withdraw err = %v, want ErrNoProceeds", err)
		}
	})

	t.Run("NonManagerCannotWithdrawOrPrice", func(t *testing.T) {
		if _, err := g.Withdraw(ctx, alice); !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("withdraw err = %v, want ErrMissingRole", err)
		}
		if err := g.SetTokenPrice(ctx, alice, gymledger.Units(5)); !errors.Is(err, gymledger.ErrMissingRole) {
			t.Fatalf("price err = %v, want ErrMissingRole", err)
		}
	})
}
