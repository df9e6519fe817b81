package authGate

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/wheelmarket/authGate/revocation"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Token.AccessTTL != time.Hour {
		t.Fatalf("access ttl = %s", cfg.Token.AccessTTL)
	}
	if cfg.Token.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("refresh ttl = %s", cfg.Token.RefreshTTL)
	}
	if cfg.Session.InactivityLimit != 15*time.Minute {
		t.Fatalf("inactivity limit = %s", cfg.Session.InactivityLimit)
	}
	if cfg.Session.PreemptiveRefreshWindow != 10*time.Minute {
		t.Fatalf("preemptive window = %s", cfg.Session.PreemptiveRefreshWindow)
	}
	if cfg.Cookies.AccessName != "token" || cfg.Cookies.RefreshName != "refreshToken" {
		t.Fatalf("cookie names = %q/%q", cfg.Cookies.AccessName, cfg.Cookies.RefreshName)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"short secret", func(c *Config) { c.Token.Secret = []byte("short") }, "secret"},
		{"zero access ttl", func(c *Config) { c.Token.AccessTTL = 0 }, "access ttl"},
		{"refresh not longer than access", func(c *Config) { c.Token.RefreshTTL = c.Token.AccessTTL }, "refresh ttl"},
		{"missing issuer", func(c *Config) { c.Token.Issuer = "" }, "issuer"},
		{"huge leeway", func(c *Config) { c.Token.Leeway = 10 * time.Minute }, "leeway"},
		{"zero inactivity", func(c *Config) { c.Session.InactivityLimit = 0 }, "inactivity"},
		{"window exceeds ttl", func(c *Config) { c.Session.PreemptiveRefreshWindow = 2 * time.Hour }, "window"},
		{"duplicate cookie names", func(c *Config) { c.Cookies.RefreshName = c.Cookies.AccessName }, "distinct"},
		{"negative grace", func(c *Config) { c.Revocation.TTLGrace = -time.Second }, "grace"},
		{"audit without buffer", func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 }, "audit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestConfigProductionHardening(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.ProductionMode = true

	cfg.Cookies.Secure = false
	if err := cfg.Validate(); err == nil {
		t.Fatal("ProductionMode must require secure cookies")
	}

	cfg.Cookies.Secure = true
	cfg.Cookies.SameSite = http.SameSiteNoneMode
	if err := cfg.Validate(); err == nil {
		t.Fatal("ProductionMode must forbid SameSite=None")
	}

	cfg.Cookies.SameSite = http.SameSiteStrictMode
	cfg.Token.RefreshTTL = 60 * 24 * time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("ProductionMode must cap refresh ttl")
	}
}

func TestCloneConfigIsolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")

	clone := cloneConfig(cfg)
	clone.Token.Secret[0] = 'x'
	clone.Roles[RoleAdmin][0] = "tampered"

	if cfg.Token.Secret[0] == 'x' {
		t.Fatal("secret not deep-copied")
	}
	if cfg.Roles[RoleAdmin][0] == "tampered" {
		t.Fatal("roles not deep-copied")
	}
}

func TestBuilderRequiresDependencies(t *testing.T) {
	cfg := testConfig()

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected error without user provider")
	}

	up := &stubUserProvider{users: testUsers()}
	if _, err := New().WithConfig(cfg).WithUserProvider(up).Build(); err == nil {
		t.Fatal("expected error without revocation backend")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	up := &stubUserProvider{users: testUsers()}
	b := New().
		WithConfig(testConfig()).
		WithRevocationStore(revocation.NewMemoryStore()).
		WithUserProvider(up)

	gate, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	t.Cleanup(gate.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestCookiePolicyProductionForcesSecure(t *testing.T) {
	gate, _, _ := newTestGate(t, func(c *Config) {
		c.ProductionMode = true
		c.Cookies.Secure = true
	})

	policy := gate.CookiePolicy()
	if !policy.Secure {
		t.Fatal("expected secure cookies in production")
	}
	if policy.AccessMaxAge != gate.config.Token.AccessTTL {
		t.Fatalf("access max-age = %s", policy.AccessMaxAge)
	}
}
