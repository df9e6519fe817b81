package authGate

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wheelmarket/authGate/token"
)

func policyClaims(lastActivity, expiresAt time.Time) *token.Claims {
	return &token.Claims{
		UserID:       "user-1",
		Role:         RoleUser,
		TokenType:    token.TypeAccess,
		LastActivity: jwt.NewNumericDate(lastActivity),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(lastActivity),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

func TestPolicyDecisionTable(t *testing.T) {
	policy := Policy{
		InactivityLimit:         15 * time.Minute,
		PreemptiveRefreshWindow: 10 * time.Minute,
	}
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name          string
		lastActivity  time.Time
		expiresAt     time.Time
		refreshUsable bool
		want          Decision
	}{
		{"fresh", now.Add(-time.Minute), now.Add(30 * time.Minute), false, DecisionFresh},
		{"fresh at inactivity boundary", now.Add(-15 * time.Minute), now.Add(30 * time.Minute), false, DecisionFresh},
		{"just under inactivity limit", now.Add(-14*time.Minute - 59*time.Second), now.Add(30 * time.Minute), false, DecisionFresh},
		{"just over inactivity limit", now.Add(-15*time.Minute - time.Second), now.Add(30 * time.Minute), false, DecisionInactive},
		{"inactive regardless of refresh while unexpired", now.Add(-20 * time.Minute), now.Add(30 * time.Minute), true, DecisionInactive},
		{"near expiry inside window", now.Add(-time.Minute), now.Add(9 * time.Minute), false, DecisionNearExpiry},
		{"near expiry at window boundary", now.Add(-time.Minute), now.Add(10 * time.Minute), false, DecisionNearExpiry},
		{"fresh just outside window", now.Add(-time.Minute), now.Add(10*time.Minute + time.Second), false, DecisionFresh},
		{"expired active session", now.Add(-time.Minute), now.Add(-time.Second), true, DecisionExpired},
		{"expired no refresh", now.Add(-time.Minute), now.Add(-time.Second), false, DecisionExpired},
		{"inactive and expired with refresh", now.Add(-20 * time.Minute), now.Add(-time.Minute), true, DecisionInactive},
		{"inactive and expired without refresh", now.Add(-20 * time.Minute), now.Add(-time.Minute), false, DecisionExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := policy.Evaluate(now, policyClaims(tc.lastActivity, tc.expiresAt), tc.refreshUsable)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestPolicyNilClaimsExpired(t *testing.T) {
	policy := Policy{InactivityLimit: 15 * time.Minute, PreemptiveRefreshWindow: 10 * time.Minute}
	if got := policy.Evaluate(time.Now(), nil, true); got != DecisionExpired {
		t.Fatalf("expected expired for nil claims, got %s", got)
	}
}

func TestPolicyMissingExpiryExpired(t *testing.T) {
	policy := Policy{InactivityLimit: 15 * time.Minute, PreemptiveRefreshWindow: 10 * time.Minute}
	claims := policyClaims(time.Now(), time.Now())
	claims.ExpiresAt = nil

	if got := policy.Evaluate(time.Now(), claims, true); got != DecisionExpired {
		t.Fatalf("expected expired for missing expiry, got %s", got)
	}
}

func TestPolicyLastActivityFallsBackToIssuedAt(t *testing.T) {
	policy := Policy{InactivityLimit: 15 * time.Minute, PreemptiveRefreshWindow: 10 * time.Minute}
	now := time.Now()

	claims := policyClaims(now.Add(-20*time.Minute), now.Add(30*time.Minute))
	claims.LastActivity = nil
	claims.IssuedAt = jwt.NewNumericDate(now.Add(-time.Minute))

	if got := policy.Evaluate(now, claims, false); got != DecisionFresh {
		t.Fatalf("expected fresh via issued-at fallback, got %s", got)
	}
}

func TestPolicyIsPure(t *testing.T) {
	policy := Policy{InactivityLimit: 15 * time.Minute, PreemptiveRefreshWindow: 10 * time.Minute}
	now := time.Now()
	claims := policyClaims(now.Add(-time.Minute), now.Add(30*time.Minute))

	first := policy.Evaluate(now, claims, true)
	for i := 0; i < 100; i++ {
		if got := policy.Evaluate(now, claims, true); got != first {
			t.Fatalf("evaluation not stable: %s then %s", first, got)
		}
	}
}
