package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		ServiceName:           "repogrant",
		HTTPPort:              "8080",
		GrantStore:            "memory",
		PurchaseAPIKey:        "key",
		MembershipToken:       "tok",
		ProductIDs:            []string{"Terrain Toolkit", "Shader Pack"},
		ResourceIDs:           []string{"5001", "5002"},
		MembershipAccessLevel: 10,
		UpstreamTimeout:       10 * time.Second,
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.PurchaseAPIKey = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing purchase key rejection")
	}

	cfg = validConfig()
	cfg.MembershipToken = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing membership token rejection")
	}
}

func TestValidateRejectsBadMapping(t *testing.T) {
	cfg := validConfig()
	cfg.ResourceIDs = []string{"5001"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected length mismatch rejection")
	}

	cfg = validConfig()
	cfg.ProductIDs = nil
	cfg.ResourceIDs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected empty mapping rejection")
	}

	cfg = validConfig()
	cfg.ResourceIDs = []string{"5001", " "}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected empty entry rejection")
	}
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	cfg := validConfig()
	cfg.GrantStore = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown store rejection")
	}

	cfg = validConfig()
	cfg.GrantStore = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing DSN rejection for postgres store")
	}
	cfg.PostgresDSN = "postgres://localhost/grants"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected postgres store with DSN to pass, got %v", err)
	}
}

func TestLoadParsesEnvironment(t *testing.T) {
	t.Setenv("GRANT_STORE", "memory")
	t.Setenv("PURCHASE_API_KEY", "key")
	t.Setenv("MEMBERSHIP_TOKEN", "tok")
	t.Setenv("PRODUCT_IDS", "Terrain Toolkit,Shader Pack")
	t.Setenv("RESOURCE_IDS", "5001,5002")
	t.Setenv("ALLOW_EDIT_AND_DELETE", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "repogrant" || cfg.HTTPPort != "8080" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if len(cfg.ProductIDs) != 2 || cfg.ProductIDs[1] != "Shader Pack" {
		t.Fatalf("expected split product list, got %v", cfg.ProductIDs)
	}
	if !cfg.AllowEditAndDelete || cfg.UpstreamTimeout != 5*time.Second {
		t.Fatalf("unexpected parsed values %+v", cfg)
	}
	if cfg.MembershipAccessLevel != 10 {
		t.Fatalf("expected default access level 10, got %d", cfg.MembershipAccessLevel)
	}
}
