// Package extension provides the Forge extension adapter for the gym ledger.
//
// It implements the forge.Extension interface to integrate the gym engine
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.gym" or "gym" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	gymledger "github.com/xraph/gymledger"
	"github.com/xraph/gymledger/store"
	"github.com/xraph/gymledger/store/memory"
	mongostore "github.com/xraph/gymledger/store/mongo"
	pgstore "github.com/xraph/gymledger/store/postgres"
	sqlitestore "github.com/xraph/gymledger/store/sqlite"
	"github.com/xraph/gymledger/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "gym"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Gym unit-of-account ledger engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the gym engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config   Config
	engine   *gymledger.Gym
	store    store.Store
	groveDB  *grove.DB
	useGrove bool
	gymOpts  []gymledger.Option
}

// New creates a new gym Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying gym instance.
// This is nil until Register is called.
func (e *Extension) Engine() *gymledger.Gym { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the gym engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if e.store == nil && e.useGrove {
		s, err := e.buildGroveStore()
		if err != nil {
			return err
		}
		e.store = s
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	opts := e.buildGymOpts()

	e.engine = gymledger.New(e.store, opts...)

	return vessel.Provide(fapp.Container(), func() (*gymledger.Gym, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("gym: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
		if err := e.seedSalePrice(ctx); err != nil {
			return err
		}
	} else if e.config.SalePrice > 0 {
		e.Logger().Warn("gym: sale_price configured but migrations are disabled, not seeding",
			forge.F("sale_price", e.config.SalePrice),
		)
	}

	e.MarkStarted()
	return nil
}

// seedSalePrice applies a configured sale price. The store must be migrated
// first; on SQL and mongo backends the price lives on the singleton state row.
func (e *Extension) seedSalePrice(ctx context.Context) error {
	if e.config.SalePrice <= 0 {
		return nil
	}
	return e.store.SetSalePrice(ctx, types.Amount(e.config.SalePrice))
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("gym: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildGroveStore constructs the store backend matching the configured driver.
func (e *Extension) buildGroveStore() (store.Store, error) {
	if e.groveDB == nil {
		return nil, errors.New("gym: grove store requested but no grove.DB provided")
	}

	switch e.config.GroveDriver {
	case "postgres":
		return pgstore.New(e.groveDB), nil
	case "sqlite":
		return sqlitestore.New(e.groveDB), nil
	case "mongo":
		return mongostore.New(e.groveDB), nil
	default:
		return nil, fmt.Errorf("gym: unknown grove driver %q", e.config.GroveDriver)
	}
}

// buildGymOpts constructs gymledger.Option values from the resolved config.
func (e *Extension) buildGymOpts() []gymledger.Option {
	opts := make([]gymledger.Option, 0, len(e.gymOpts)+1)

	if e.config.ReferralReward > 0 {
		opts = append(opts, gymledger.WithReferralReward(types.Amount(e.config.ReferralReward)))
	}

	// Append any pass-through gym options.
	opts = append(opts, e.gymOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("gym: configuration is required but not found in config files; " +
				"ensure 'extensions.gym' or 'gym' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("gym: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("referral_reward", e.config.ReferralReward),
		forge.F("sale_price", e.config.SalePrice),
		forge.F("grove_driver", e.config.GroveDriver),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.gym" first (namespaced pattern).
	if cm.IsSet("extensions.gym") {
		if err := cm.Bind("extensions.gym", &cfg); err == nil {
			e.Logger().Debug("gym: loaded config from file",
				forge.F("key", "extensions.gym"),
			)
			return cfg, true
		}
		e.Logger().Warn("gym: failed to bind extensions.gym config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "gym" key.
	if cm.IsSet("gym") {
		if err := cm.Bind("gym", &cfg); err == nil {
			e.Logger().Debug("gym: loaded config from file",
				forge.F("key", "gym"),
			)
			return cfg, true
		}
		e.Logger().Warn("gym: failed to bind gym config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.ReferralReward == 0 {
		cfg.ReferralReward = defaults.ReferralReward
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.GroveDriver == "" && programmaticConfig.GroveDriver != "" {
		yamlConfig.GroveDriver = programmaticConfig.GroveDriver
	}

	// Numeric fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.ReferralReward == 0 && programmaticConfig.ReferralReward != 0 {
		yamlConfig.ReferralReward = programmaticConfig.ReferralReward
	}
	if yamlConfig.SalePrice == 0 && programmaticConfig.SalePrice != 0 {
		yamlConfig.SalePrice = programmaticConfig.SalePrice
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
