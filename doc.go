// Package authGate provides the session token lifecycle engine for the
// wheelmarket backend: JWT access tokens with sliding activity renewal,
// rotating refresh tokens, and a Redis-backed revocation blacklist.
//
// Every inbound request passes through [Gate.Authenticate] exactly once. The
// gate checks the blacklist, decodes the access token, evaluates session
// policy (inactivity before absolute expiry), and either re-mints the access
// token with a fresh activity timestamp or rotates the refresh token. Gate
// methods are safe to call from multiple goroutines after initialization
// through [Builder.Build].
//
// # Architecture boundaries
//
// authGate is the public surface. It exposes [Gate], [Builder], [Config],
// and value types (Identity, Result, MetricsSnapshot, etc.). Token encoding
// lives in the token sub-package, blacklist storage in revocation, transport
// adapters in middleware, and audit dispatch under internal/.
//
// # What this package must NOT do
//
//   - Store user accounts. User lookups go through the injected
//     [UserProvider]; the gate only consumes {id, role, status}.
//   - Expose Redis clients or encoding details in its public API.
//   - Perform I/O outside of Gate methods (construction via Builder is
//     allocation-only until Build).
//
// # Performance contract
//
// Authenticate is the hot path. The steady state (fresh token) costs one
// revocation lookup, one decode, and one re-mint; rotation paths are allowed
// one user lookup and one additional Redis round-trip.
package authGate
