package authGate

import (
	"net/http"
	"time"
)

// CookiePolicy describes how a transport layer should read and set token
// cookies for this gate. Both cookies are HTTP-only; the refresh token in
// particular must never be readable by page scripts.
type CookiePolicy struct {
	AccessName    string
	RefreshName   string
	Path          string
	Domain        string
	SameSite      http.SameSite
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// CookiePolicy describes the cookiepolicy operation and its observable behavior.
//
// CookiePolicy may return an error when input validation, dependency calls, or security checks fail.
// CookiePolicy does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Gate) CookiePolicy() CookiePolicy {
	if g == nil {
		return CookiePolicy{}
	}

	policy := CookiePolicy{
		AccessName:    g.config.Cookies.AccessName,
		RefreshName:   g.config.Cookies.RefreshName,
		Path:          g.config.Cookies.Path,
		Domain:        g.config.Cookies.Domain,
		SameSite:      g.config.Cookies.SameSite,
		Secure:        g.config.Cookies.Secure,
		AccessMaxAge:  g.config.Token.AccessTTL,
		RefreshMaxAge: g.config.Token.RefreshTTL,
	}
	if g.config.ProductionMode {
		policy.Secure = true
	}
	return policy
}
