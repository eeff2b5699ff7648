package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration, parsed once at startup and
// passed by value into builders. Components never read the environment
// themselves.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"repogrant"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`

	// GrantStore selects the persistence adapter: "postgres" or "memory".
	GrantStore  string `env:"GRANT_STORE" envDefault:"postgres"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	PurchaseAPIKey string `env:"PURCHASE_API_KEY"`
	PurchaseAPIURL string `env:"PURCHASE_API_URL"`

	MembershipToken  string `env:"MEMBERSHIP_TOKEN"`
	MembershipAPIURL string `env:"MEMBERSHIP_API_URL"`

	// ProductIDs and ResourceIDs are the positional product-to-resource
	// correspondence. Equal length, no empty entries; violations stop the
	// process at startup.
	ProductIDs  []string `env:"PRODUCT_IDS" envSeparator:","`
	ResourceIDs []string `env:"RESOURCE_IDS" envSeparator:","`

	AllowEditAndDelete bool `env:"ALLOW_EDIT_AND_DELETE"`
	AllowFree          bool `env:"ALLOW_FREE_PURCHASES"`
	AllowRefunded      bool `env:"ALLOW_REFUNDED_PURCHASES"`

	ChallengeSecret    string `env:"CHALLENGE_SECRET"`
	ChallengeVerifyURL string `env:"CHALLENGE_VERIFY_URL"`

	SuccessRedirectURL string `env:"SUCCESS_REDIRECT_URL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	MembershipAccessLevel int           `env:"MEMBERSHIP_ACCESS_LEVEL" envDefault:"10"`
	UpstreamTimeout       time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the fail-fast startup contract: missing credentials or
// a malformed product/resource correspondence must prevent startup, never
// fail per-request.
func (c Config) Validate() error {
	if strings.TrimSpace(c.PurchaseAPIKey) == "" {
		return errors.New("PURCHASE_API_KEY is required")
	}
	if strings.TrimSpace(c.MembershipToken) == "" {
		return errors.New("MEMBERSHIP_TOKEN is required")
	}
	if len(c.ProductIDs) != len(c.ResourceIDs) {
		return fmt.Errorf("PRODUCT_IDS and RESOURCE_IDS must have equal length: %d vs %d",
			len(c.ProductIDs), len(c.ResourceIDs))
	}
	if len(c.ProductIDs) == 0 {
		return errors.New("PRODUCT_IDS and RESOURCE_IDS must not be empty")
	}
	for i, p := range c.ProductIDs {
		if strings.TrimSpace(p) == "" || strings.TrimSpace(c.ResourceIDs[i]) == "" {
			return fmt.Errorf("empty entry at position %d in product/resource lists", i)
		}
	}
	switch c.GrantStore {
	case "postgres":
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required when GRANT_STORE=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown GRANT_STORE %q", c.GrantStore)
	}
	return nil
}
