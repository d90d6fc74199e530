package extension

// Config holds the gym extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.gym" or "gym" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// ReferralReward is the fixed amount minted per rewarded referral
	// (default: 10).
	ReferralReward int64 `json:"referral_reward" mapstructure:"referral_reward" yaml:"referral_reward"`

	// SalePrice is the initial price per token for the issuance gateway.
	// Zero leaves the gateway closed until a manager sets a price.
	SalePrice int64 `json:"sale_price" mapstructure:"sale_price" yaml:"sale_price"`

	// GroveDriver selects the store backend built from an injected grove.DB:
	// "postgres", "sqlite" or "mongo". Ignored when no grove.DB was provided.
	GroveDriver string `json:"grove_driver" mapstructure:"grove_driver" yaml:"grove_driver"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReferralReward: 10,
	}
}
