package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	authGate "github.com/wheelmarket/authGate"
)

type identityContextKey struct{}

type responseBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// IdentityFromContext returns the identity attached by [Guard] or
// [GinGuard], or false when the request was not authenticated.
func IdentityFromContext(ctx context.Context) (*authGate.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*authGate.Identity)
	return id, ok
}

// Guard wires the gate into a net/http middleware chain. On success the
// renewed token cookies are set and the identity is attached to the request
// context; on rejection the stable JSON error body is written and the chain
// stops.
func Guard(gate *authGate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				writeJSON(w, http.StatusInternalServerError, responseBody{Message: "authentication unavailable"})
				return
			}

			policy := gate.CookiePolicy()
			creds := CredentialsFromRequest(r, policy)

			ctx := authGate.WithClientIP(r.Context(), clientIP(r))
			ctx = authGate.WithUserAgent(ctx, r.UserAgent())

			result, err := gate.Authenticate(ctx, creds)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			SetTokenCookies(w, policy, result)

			ctx = context.WithValue(ctx, identityContextKey{}, result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route on a single permission string. It must run
// after [Guard].
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || !id.HasPermission(perm) {
				writeJSON(w, http.StatusForbidden, responseBody{Message: "insufficient permissions"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LogoutHandler revokes the presented tokens and expires both cookies.
func LogoutHandler(gate *authGate.Gate) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate == nil {
			writeJSON(w, http.StatusInternalServerError, responseBody{Message: "authentication unavailable"})
			return
		}

		policy := gate.CookiePolicy()
		creds := CredentialsFromRequest(r, policy)

		ctx := authGate.WithClientIP(r.Context(), clientIP(r))
		if err := gate.Logout(ctx, creds); err != nil {
			writeJSON(w, http.StatusInternalServerError, responseBody{Message: "logout failed"})
			return
		}

		ClearTokenCookies(w, policy)
		writeJSON(w, http.StatusOK, responseBody{Success: true, Message: "logged out"})
	})
}

// CredentialsFromRequest extracts the token carriers: cookies first, then
// the Authorization header as a fallback for non-browser clients.
func CredentialsFromRequest(r *http.Request, policy authGate.CookiePolicy) authGate.Credentials {
	var creds authGate.Credentials

	if c, err := r.Cookie(policy.AccessName); err == nil && c.Value != "" {
		creds.AccessToken = c.Value
	}
	if creds.AccessToken == "" {
		if tok, ok := bearerToken(r.Header.Get("Authorization")); ok {
			creds.AccessToken = tok
		}
	}
	if c, err := r.Cookie(policy.RefreshName); err == nil && c.Value != "" {
		creds.RefreshToken = c.Value
	}

	return creds
}

// SetTokenCookies writes the renewed carriers back to the client. The
// refresh cookie is only rewritten when rotation produced a new one.
func SetTokenCookies(w http.ResponseWriter, policy authGate.CookiePolicy, result *authGate.Result) {
	if result == nil {
		return
	}

	if result.AccessToken != "" {
		http.SetCookie(w, tokenCookie(policy, policy.AccessName, result.AccessToken, int(policy.AccessMaxAge.Seconds())))
	}
	if result.Rotated && result.RefreshToken != "" {
		http.SetCookie(w, tokenCookie(policy, policy.RefreshName, result.RefreshToken, int(policy.RefreshMaxAge.Seconds())))
	}
}

// ClearTokenCookies expires both carriers.
func ClearTokenCookies(w http.ResponseWriter, policy authGate.CookiePolicy) {
	http.SetCookie(w, tokenCookie(policy, policy.AccessName, "", -1))
	http.SetCookie(w, tokenCookie(policy, policy.RefreshName, "", -1))
}

func tokenCookie(policy authGate.CookiePolicy, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     policy.Path,
		Domain:   policy.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   policy.Secure,
		SameSite: policy.SameSite,
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeAuthError(w http.ResponseWriter, err error) {
	if rej, ok := authGate.AsRejection(err); ok {
		writeJSON(w, rej.Status, responseBody{Message: rej.Message, Code: string(rej.Code)})
		return
	}
	writeJSON(w, http.StatusInternalServerError, responseBody{Message: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body responseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
