package authGate

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// TokenConfig defines a public type used by authGate APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Audience   string
	Leeway     time.Duration
}

// SessionConfig defines a public type used by authGate APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// InactivityLimit is the maximum gap between authenticated requests
	// before the session is considered abandoned.
	InactivityLimit time.Duration
	// PreemptiveRefreshWindow marks tokens this close to expiry for renewal
	// while the request still succeeds.
	PreemptiveRefreshWindow time.Duration
}

// CookieConfig defines a public type used by authGate APIs.
//
// CookieConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	Path        string
	Domain      string
	SameSite    http.SameSite
	Secure      bool
}

// RevocationConfig defines a public type used by authGate APIs.
//
// RevocationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RevocationConfig struct {
	KeyPrefix string
	// TTLGrace pads revocation entries past the revoked token's expiry so
	// clock skew between nodes cannot resurrect a blacklisted token.
	TTLGrace time.Duration
}

// MetricsConfig defines a public type used by authGate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// AuditConfig defines a public type used by authGate APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Config defines a public type used by authGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token      TokenConfig
	Session    SessionConfig
	Cookies    CookieConfig
	Revocation RevocationConfig
	// Roles maps a role name to the permission strings granted to it.
	Roles   map[string][]string
	Metrics MetricsConfig
	Audit   AuditConfig
	// ProductionMode tightens validation: secure cookies become mandatory
	// and refresh lifetimes are capped.
	ProductionMode bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "wheelmarket-api",
			Audience:   "wheelmarket-users",
			Leeway:     30 * time.Second,
		},
		Session: SessionConfig{
			InactivityLimit:         15 * time.Minute,
			PreemptiveRefreshWindow: 10 * time.Minute,
		},
		Cookies: CookieConfig{
			AccessName:  "token",
			RefreshName: "refreshToken",
			Path:        "/",
			SameSite:    http.SameSiteStrictMode,
			Secure:      true,
		},
		Revocation: RevocationConfig{
			KeyPrefix: "rvk",
			TTLGrace:  time.Minute,
		},
		Roles: map[string][]string{
			RoleAdmin: {
				"listings:write", "listings:delete", "listings:moderate",
				"messages:moderate", "reports:view", "users:manage", "admin:panel",
			},
			RoleModerator: {
				"listings:moderate", "messages:moderate", "reports:view",
			},
			RoleUser: {},
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg

	if cfg.Token.Secret != nil {
		out.Token.Secret = make([]byte, len(cfg.Token.Secret))
		copy(out.Token.Secret, cfg.Token.Secret)
	}

	if cfg.Roles != nil {
		out.Roles = make(map[string][]string, len(cfg.Roles))
		for role, perms := range cfg.Roles {
			next := make([]string, len(perms))
			copy(next, perms)
			out.Roles[role] = next
		}
	}

	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if len(c.Token.Secret) < 32 {
		return errors.New("config: token secret must be at least 32 bytes")
	}
	if c.Token.AccessTTL <= 0 {
		return errors.New("config: access ttl must be positive")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("config: refresh ttl must exceed access ttl")
	}
	if c.Token.Issuer == "" || c.Token.Audience == "" {
		return errors.New("config: issuer and audience are required")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("config: leeway must be in [0, 2m]")
	}

	if c.Session.InactivityLimit <= 0 {
		return errors.New("config: inactivity limit must be positive")
	}
	if c.Session.PreemptiveRefreshWindow <= 0 {
		return errors.New("config: preemptive refresh window must be positive")
	}
	if c.Session.PreemptiveRefreshWindow >= c.Token.AccessTTL {
		return errors.New("config: preemptive refresh window must be shorter than access ttl")
	}

	if c.Cookies.AccessName == "" || c.Cookies.RefreshName == "" {
		return errors.New("config: cookie names are required")
	}
	if c.Cookies.AccessName == c.Cookies.RefreshName {
		return errors.New("config: access and refresh cookies must use distinct names")
	}

	if c.Revocation.TTLGrace < 0 {
		return errors.New("config: revocation ttl grace must be non-negative")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("config: audit buffer size must be positive when audit is enabled")
	}

	if c.ProductionMode {
		if !c.Cookies.Secure {
			return errors.New("config: ProductionMode requires secure cookies")
		}
		if c.Cookies.SameSite == http.SameSiteNoneMode {
			return errors.New("config: ProductionMode forbids SameSite=None")
		}
		if c.Token.RefreshTTL > 30*24*time.Hour {
			return fmt.Errorf("config: ProductionMode caps refresh ttl at 30 days, got %s", c.Token.RefreshTTL)
		}
	}

	return nil
}
