// Package token implements the signed token codec used by the gate.
//
// The codec is a pure translation layer: it maps claim sets to signed HS256
// compact serializations and back, classifying every decode failure into a
// small, stable taxonomy (expired, malformed, bad signature). It performs no
// I/O and holds no session state.
//
// # What this package must NOT do
//
//   - Consult revocation state. Membership checks belong to the gate so that
//     blacklisted tokens are rejected before any decode work.
//   - Apply session policy. Inactivity and renewal windows are evaluated on
//     already-decoded claims by the root package.
package token
