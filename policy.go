package authGate

import (
	"time"

	"github.com/wheelmarket/authGate/token"
)

// Decision defines a public type used by authGate APIs.
//
// Decision instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Decision uint8

const (
	// DecisionFresh is an exported constant or variable used by the authentication gate.
	DecisionFresh Decision = iota
	// DecisionNearExpiry is an exported constant or variable used by the authentication gate.
	DecisionNearExpiry
	// DecisionInactive is an exported constant or variable used by the authentication gate.
	DecisionInactive
	// DecisionExpired is an exported constant or variable used by the authentication gate.
	DecisionExpired
)

func (d Decision) String() string {
	switch d {
	case DecisionFresh:
		return "fresh"
	case DecisionNearExpiry:
		return "near_expiry"
	case DecisionInactive:
		return "inactive"
	case DecisionExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Policy classifies a decoded access token against the session rules. It is
// a pure value type: no I/O, no clock reads, no allocation. The caller
// supplies the evaluation instant.
type Policy struct {
	InactivityLimit         time.Duration
	PreemptiveRefreshWindow time.Duration
}

// Evaluate applies the session rules in a fixed order. Inactivity is checked
// before absolute expiry: an abandoned session reads as Inactive even when
// its token has also lapsed, provided a refresh token is still usable,
// because Inactive is the outcome with the richer recovery path. Without a
// usable refresh token the same state collapses to Expired.
func (p Policy) Evaluate(now time.Time, claims *token.Claims, refreshUsable bool) Decision {
	if claims == nil || claims.ExpiresAt == nil {
		return DecisionExpired
	}

	expiry := claims.ExpiresAt.Time
	expired := now.After(expiry)

	if now.Sub(p.lastActivity(claims)) > p.InactivityLimit {
		if expired && !refreshUsable {
			return DecisionExpired
		}
		return DecisionInactive
	}

	if expired {
		return DecisionExpired
	}
	if expiry.Sub(now) <= p.PreemptiveRefreshWindow {
		return DecisionNearExpiry
	}
	return DecisionFresh
}

// Tokens minted before the activity claim existed fall back to issuance
// time.
func (p Policy) lastActivity(claims *token.Claims) time.Time {
	if claims.LastActivity != nil {
		return claims.LastActivity.Time
	}
	if claims.IssuedAt != nil {
		return claims.IssuedAt.Time
	}
	return time.Time{}
}
