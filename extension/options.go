package extension

import (
	"github.com/xraph/grove"

	gymledger "github.com/xraph/gymledger"
	"github.com/xraph/gymledger/id"
	"github.com/xraph/gymledger/member"
	"github.com/xraph/gymledger/plugin"
	"github.com/xraph/gymledger/store"
)

// Option configures the gym Forge extension.
type Option func(*Extension)

// WithStore sets the store for the gym engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB sets a grove.DB from which the extension auto-constructs the
// store backend. The backend is selected by the grove_driver config value
// ("postgres", "sqlite" or "mongo").
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
		e.useGrove = true
	}
}

// WithGymOption passes a gymledger.Option through to the underlying engine.
func WithGymOption(opt gymledger.Option) Option {
	return func(e *Extension) {
		e.gymOpts = append(e.gymOpts, opt)
	}
}

// WithPlugin registers a gym plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.gymOpts = append(e.gymOpts, gymledger.WithPlugin(p))
	}
}

// WithPriceTable replaces the default membership tariff.
func WithPriceTable(pt *member.PriceTable) Option {
	return func(e *Extension) {
		e.gymOpts = append(e.gymOpts, gymledger.WithPriceTable(pt))
	}
}

// WithBootstrapManager grants the Manager role to acct on first start.
func WithBootstrapManager(acct id.AccountID) Option {
	return func(e *Extension) {
		e.gymOpts = append(e.gymOpts, gymledger.WithBootstrapManager(acct))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithReferralReward sets the fixed amount minted per rewarded referral.
func WithReferralReward(amount int64) Option {
	return func(e *Extension) { e.config.ReferralReward = amount }
}

// WithSalePrice sets the initial price per token for the issuance gateway.
func WithSalePrice(price int64) Option {
	return func(e *Extension) { e.config.SalePrice = price }
}

// WithGroveDriver selects the store backend built from the injected grove.DB.
func WithGroveDriver(driver string) Option {
	return func(e *Extension) { e.config.GroveDriver = driver }
}
