package revocation

import (
	"context"
	"time"
)

// Reason defines a public type used by authGate APIs.
//
// Reason instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Reason string

const (
	// ReasonRotation is an exported constant or variable used by the authentication gate.
	ReasonRotation Reason = "ROTATION"
	// ReasonLogout is an exported constant or variable used by the authentication gate.
	ReasonLogout Reason = "LOGOUT"
	// ReasonSecurity is an exported constant or variable used by the authentication gate.
	ReasonSecurity Reason = "SECURITY"
)

// Entry defines a public type used by authGate APIs.
//
// Entry instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Entry struct {
	TokenID   string    `json:"tokenId"`
	UserID    string    `json:"userId,omitempty"`
	Reason    Reason    `json:"reason"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store is a shared, TTL-bounded set of revoked token identifiers.
//
// Add reports whether the entry was newly inserted. An insert that finds the
// identifier already present returns false with a nil error; callers use
// this to detect concurrent rotation of the same refresh token. Entries must
// expire no earlier than the token they revoke, after which they may be
// dropped because the token is unusable on its own.
type Store interface {
	Add(ctx context.Context, entry Entry, ttl time.Duration) (bool, error)
	Contains(ctx context.Context, tokenID string) (bool, error)
}
