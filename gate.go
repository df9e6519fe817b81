package authGate

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/wheelmarket/authGate/internal"
	"github.com/wheelmarket/authGate/internal/audit"
	"github.com/wheelmarket/authGate/revocation"
	"github.com/wheelmarket/authGate/token"
)

// Gate is the request-time orchestrator. Every authenticated request passes
// through [Gate.Authenticate] exactly once; the codec, policy, revocation
// store, and rotator are only ever invoked from here.
type Gate struct {
	config  Config
	codec   *token.Codec
	issuer  *Issuer
	policy  Policy
	store   revocation.Store
	users   UserProvider
	rotator *Rotator
	metrics *Metrics
	audit   *audit.Dispatcher
	log     zerolog.Logger
	now     func() time.Time
}

// Authenticate runs the full decision table for one request: blacklist
// pre-check on the raw access token, decode, session policy, then either
// sliding renewal or refresh rotation. On success the returned
// [Result.AccessToken] carries a fresh activity timestamp and must replace
// the client's stored token. On failure the error is a [*Rejection] with a
// stable code and HTTP status, except for internal minting faults which
// surface as plain errors.
func (g *Gate) Authenticate(ctx context.Context, creds Credentials) (*Result, error) {
	if g == nil || g.codec == nil {
		return nil, ErrNotReady
	}

	if g.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			g.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
		}()
	}

	if creds.AccessToken == "" {
		return nil, g.rejected(ctx, CodeNoToken, MetricNoToken, "", "")
	}

	// Blacklist pre-check on the raw serialization, before any decode work.
	// Lookup failures are fail-open: the revocation store must not be a
	// single point of total outage for the whole marketplace.
	digest := internal.TokenDigest(creds.AccessToken)
	revoked, err := g.store.Contains(ctx, digest)
	if err != nil {
		g.metrics.Inc(MetricRevocationFailOpen)
		g.log.Warn().Err(err).Msg("revocation lookup failed, continuing fail-open")
		g.emitAudit(ctx, audit.Event{
			EventType: auditEventRevocationDegraded,
			TokenID:   digest,
			Error:     err.Error(),
		})
		revoked = false
	}
	if revoked {
		return nil, g.rejected(ctx, CodeTokenBlacklisted, MetricTokenBlacklisted, "", digest)
	}

	claims, decodeErr := g.codec.Decode(creds.AccessToken)
	tokenExpired := false
	switch {
	case decodeErr == nil:
	case errors.Is(decodeErr, token.ErrExpired) && claims != nil:
		// Expired is recoverable; keep the claims and let policy decide.
		tokenExpired = true
	default:
		return nil, g.rejected(ctx, CodeInvalidToken, MetricTokenInvalid, "", "")
	}

	if claims.TokenType != token.TypeAccess {
		return nil, g.rejected(ctx, CodeInvalidTokenType, MetricTokenTypeMismatch, claims.UserID, "")
	}

	now := g.now()
	refreshUsable := creds.RefreshToken != ""

	decision := DecisionExpired
	if !tokenExpired {
		decision = g.policy.Evaluate(now, claims, refreshUsable)
	} else if now.Sub(g.policy.lastActivity(claims)) > g.policy.InactivityLimit && refreshUsable {
		// Inactive-and-expired reads as inactive while recovery is possible.
		decision = DecisionInactive
	}

	switch decision {
	case DecisionInactive, DecisionExpired:
		if !refreshUsable {
			if decision == DecisionInactive {
				return nil, g.rejected(ctx, CodeSessionInactive, MetricSessionInactive, claims.UserID, "")
			}
			return nil, g.rejected(ctx, CodeTokenExpired, MetricTokenExpired, claims.UserID, "")
		}
		return g.recover(ctx, claims, creds.RefreshToken)
	default:
		return g.renew(ctx, claims, decision, now)
	}
}

// renew re-mints the access token with lastActivity=now. This is the steady
// state of every authenticated request.
func (g *Gate) renew(ctx context.Context, claims *token.Claims, decision Decision, now time.Time) (*Result, error) {
	principal := Principal{UserID: claims.UserID, Role: claims.Role}

	access, err := g.issuer.AccessToken(principal, now)
	if err != nil {
		g.log.Error().Err(err).Str("user_id", claims.UserID).Msg("access token mint failed")
		return nil, err
	}

	if decision == DecisionNearExpiry {
		g.metrics.Inc(MetricPreemptiveRefresh)
	} else {
		g.metrics.Inc(MetricSlidingRenewal)
	}
	g.metrics.Inc(MetricAuthAllowed)

	return &Result{
		Identity:    g.identityFor(principal),
		AccessToken: access,
	}, nil
}

// recover runs refresh rotation for a session whose access token is no
// longer sufficient on its own.
func (g *Gate) recover(ctx context.Context, claims *token.Claims, refreshToken string) (*Result, error) {
	pair, principal, err := g.rotator.Rotate(ctx, refreshToken)
	if err != nil {
		code, metric := rotationRejection(err)
		g.emitAudit(ctx, audit.Event{
			EventType: auditEventRotationFailed,
			UserID:    claims.UserID,
			Code:      string(code),
			Error:     err.Error(),
		})
		return nil, g.rejected(ctx, code, metric, claims.UserID, "")
	}

	g.metrics.Inc(MetricAuthAllowed)
	g.emitAudit(ctx, audit.Event{
		EventType: auditEventRotated,
		UserID:    principal.UserID,
		TokenID:   pair.RefreshTokenID,
		Success:   true,
	})

	return &Result{
		Identity:     g.identityFor(principal),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Rotated:      true,
	}, nil
}

// Refresh rotates explicitly, as driven by a dedicated refresh endpoint. It
// shares the rotator with the in-band recovery path, so a concurrent
// Authenticate and Refresh on the same refresh token still resolve to one
// winner.
func (g *Gate) Refresh(ctx context.Context, refreshToken string) (TokenPair, *Identity, error) {
	if g == nil || g.rotator == nil {
		return TokenPair{}, nil, ErrNotReady
	}
	if refreshToken == "" {
		return TokenPair{}, nil, reject(CodeNoToken)
	}

	pair, principal, err := g.rotator.Rotate(ctx, refreshToken)
	if err != nil {
		code, metric := rotationRejection(err)
		g.metrics.Inc(MetricAuthRejected)
		g.metrics.Inc(metric)
		g.emitAudit(ctx, audit.Event{
			EventType: auditEventRotationFailed,
			Code:      string(code),
			Error:     err.Error(),
		})
		return TokenPair{}, nil, reject(code)
	}

	g.emitAudit(ctx, audit.Event{
		EventType: auditEventRotated,
		UserID:    principal.UserID,
		TokenID:   pair.RefreshTokenID,
		Success:   true,
	})

	return pair, g.identityFor(principal), nil
}

// IssuePair mints a login pair for an already-authenticated principal. The
// gate does not verify credentials; password checks belong to the caller.
func (g *Gate) IssuePair(p Principal) (TokenPair, error) {
	if g == nil || g.issuer == nil {
		return TokenPair{}, ErrNotReady
	}
	if p.UserID == "" {
		return TokenPair{}, errors.New("principal missing user id")
	}
	return g.issuer.Pair(p)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	if g == nil {
		return MetricsSnapshot{}
	}
	return g.metrics.Snapshot()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Gate) AuditDropped() uint64 {
	if g == nil {
		return 0
	}
	return g.audit.Dropped()
}

// Close drains the audit dispatcher. The gate is unusable afterwards.
func (g *Gate) Close() {
	if g == nil {
		return
	}
	g.audit.Close()
}

func (g *Gate) identityFor(p Principal) *Identity {
	var perms []string
	if granted, ok := g.config.Roles[p.Role]; ok && len(granted) > 0 {
		perms = make([]string, len(granted))
		copy(perms, granted)
	}
	return &Identity{
		UserID:      p.UserID,
		Role:        p.Role,
		IsAdmin:     p.Role == RoleAdmin,
		IsModerator: p.Role == RoleModerator,
		Permissions: perms,
	}
}

func (g *Gate) rejected(ctx context.Context, code Code, metric MetricID, userID, tokenID string) *Rejection {
	g.metrics.Inc(MetricAuthRejected)
	g.metrics.Inc(metric)

	g.log.Debug().
		Str("code", string(code)).
		Str("user_id", userID).
		Msg("request rejected")

	g.emitAudit(ctx, audit.Event{
		EventType: auditEventRejected,
		UserID:    userID,
		TokenID:   tokenID,
		Code:      string(code),
	})

	return reject(code)
}

func rotationRejection(err error) (Code, MetricID) {
	switch {
	case errors.Is(err, ErrRefreshRevoked), errors.Is(err, ErrRefreshReuse):
		return CodeRefreshTokenBlacklisted, MetricTokenBlacklisted
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound, MetricUserNotFound
	case errors.Is(err, ErrUserSuspended):
		return CodeAccountLocked, MetricAccountLocked
	default:
		// Invalid, expired, or infrastructure failure: the session cannot be
		// recovered and the client must log in again.
		return CodeSessionExpired, MetricSessionExpired
	}
}
