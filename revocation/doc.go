// Package revocation provides the shared blacklist consulted by the gate on
// every request and written by refresh rotation, logout, and security
// revocation.
//
// The store is keyed by token identifier: refresh tokens by their jti claim,
// access tokens by a digest of the raw serialization. Entries carry a reason
// and expire with the token they revoke. Inserts use compare-and-swap
// semantics (SET NX on Redis) so that concurrent rotation of one refresh
// token resolves to exactly one winner.
package revocation
