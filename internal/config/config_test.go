package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:  HTTPConfig{Port: 8080},
		Cache: CacheConfig{Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingCacheAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing cache addrs")
	}
}

func TestValidate_DefaultLimitAboveMax(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.DefaultLimit = 50
	cfg.Pipeline.MaxLimit = 20

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_limit > max_limit")
	}
}

func TestValidate_ExtraVendorMissingDomain(t *testing.T) {
	cfg := validConfig()
	cfg.Vendors.Extra = []VendorEntry{{Name: "Foo Pharmacy"}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for extra vendor without domain")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Cache.TTLMinutes != 120 {
		t.Errorf("expected TTLMinutes=120, got %d", cfg.Cache.TTLMinutes)
	}
	if cfg.Cache.KeyPrefix != "pricedex:" {
		t.Errorf("expected KeyPrefix=pricedex:, got %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Search.Country != "gb" {
		t.Errorf("expected Country=gb, got %q", cfg.Search.Country)
	}
	if cfg.Pipeline.DefaultLimit != 5 {
		t.Errorf("expected DefaultLimit=5, got %d", cfg.Pipeline.DefaultLimit)
	}
	if cfg.Pipeline.AvailabilityWindow != 3 {
		t.Errorf("expected AvailabilityWindow=3, got %d", cfg.Pipeline.AvailabilityWindow)
	}
	if cfg.LLM.TimeoutSec != 60 {
		t.Errorf("expected LLM TimeoutSec=60, got %d", cfg.LLM.TimeoutSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("PRICEDEX_TEST_KEY", "secret")
	defer os.Unsetenv("PRICEDEX_TEST_KEY")

	in := []byte("api_key: ${PRICEDEX_TEST_KEY}\nbase_url: ${PRICEDEX_TEST_URL:-https://fallback.example}")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nbase_url: https://fallback.example"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestGetEnv_Default(t *testing.T) {
	os.Unsetenv("ENV")
	if env := GetEnv(); env != "local" {
		t.Errorf("expected local, got %q", env)
	}
}
