package member

import (
	"time"

	"github.com/xraph/gymledger/types"
)

type Tier string

const (
	TierMonthly   Tier = "monthly"
	TierQuarterly Tier = "quarterly"
	TierAnnual    Tier = "annual"
)

func (t Tier) Valid() bool {
	switch t {
	case TierMonthly, TierQuarterly, TierAnnual:
		return true
	}
	return false
}

func (t Tier) String() string { return string(t) }

// Terms is the price and duration a tier buys.
type Terms struct {
	Price    types.Amount  `json:"price"`
	Duration time.Duration `json:"duration"`
}

// PriceTable maps tiers to terms. Immutable after construction; Lookup on an
// unknown tier returns ok=false.
type PriceTable struct {
	terms map[Tier]Terms
}

func NewPriceTable(terms map[Tier]Terms) *PriceTable {
	copied := make(map[Tier]Terms, len(terms))
	for tier, t := range terms {
		copied[tier] = t
	}
	return &PriceTable{terms: copied}
}

// DefaultPriceTable is the standard gym tariff.
func DefaultPriceTable() *PriceTable {
	return NewPriceTable(map[Tier]Terms{
		TierMonthly:   {Price: types.Units(50), Duration: 30 * 24 * time.Hour},
		TierQuarterly: {Price: types.Units(135), Duration: 90 * 24 * time.Hour},
		TierAnnual:    {Price: types.Units(500), Duration: 365 * 24 * time.Hour},
	})
}

func (pt *PriceTable) Lookup(tier Tier) (Terms, bool) {
	t, ok := pt.terms[tier]
	return t, ok
}

// Tiers lists the tiers the table prices.
func (pt *PriceTable) Tiers() []Tier {
	out := make([]Tier, 0, len(pt.terms))
	for tier := range pt.terms {
		out = append(out, tier)
	}
	return out
}
