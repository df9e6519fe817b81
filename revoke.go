package authGate

import (
	"context"
	"errors"
	"time"

	"github.com/wheelmarket/authGate/internal"
	"github.com/wheelmarket/authGate/internal/audit"
	"github.com/wheelmarket/authGate/revocation"
	"github.com/wheelmarket/authGate/token"
)

// Logout blacklists the presented carriers so neither can be replayed before
// its natural expiry. Both carriers are processed even if one fails; the
// joined error reports what could not be revoked.
func (g *Gate) Logout(ctx context.Context, creds Credentials) error {
	if g == nil || g.store == nil {
		return ErrNotReady
	}

	var accessErr, refreshErr error
	if creds.AccessToken != "" {
		accessErr = g.RevokeToken(ctx, creds.AccessToken, revocation.ReasonLogout)
	}
	if creds.RefreshToken != "" {
		refreshErr = g.RevokeToken(ctx, creds.RefreshToken, revocation.ReasonLogout)
	}

	err := errors.Join(accessErr, refreshErr)
	if err == nil {
		g.metrics.Inc(MetricLogout)
		g.emitAudit(ctx, audit.Event{
			EventType: auditEventLogout,
			Success:   true,
		})
	}
	return err
}

// RevokeToken force-revokes a single raw token. Refresh tokens are keyed by
// their jti, access tokens (and undecodable input) by digest of the raw
// serialization, matching the key the gate checks on every request.
// Revocation writes are fail-closed: a store error propagates so the caller
// knows the token is still live.
func (g *Gate) RevokeToken(ctx context.Context, raw string, reason revocation.Reason) error {
	if g == nil || g.store == nil {
		return ErrNotReady
	}
	if raw == "" {
		return errors.New("no token to revoke")
	}

	entry, ttl := g.revocationEntry(raw)
	entry.Reason = reason

	if _, err := g.store.Add(ctx, entry, ttl); err != nil {
		g.log.Error().Err(err).Str("reason", string(reason)).Msg("token revocation failed")
		return err
	}

	g.metrics.Inc(MetricTokenRevoked)
	g.emitAudit(ctx, audit.Event{
		EventType: auditEventTokenRevoked,
		UserID:    entry.UserID,
		TokenID:   entry.TokenID,
		Success:   true,
		Metadata:  map[string]string{"reason": string(reason)},
	})
	return nil
}

// revocationEntry derives the blacklist key and TTL for a raw token.
// Decode is best effort: revocation must work even for tokens this node can
// no longer verify, so undecodable input is keyed by digest and held for the
// longest configured lifetime.
func (g *Gate) revocationEntry(raw string) (revocation.Entry, time.Duration) {
	maxTTL := g.config.Token.RefreshTTL
	if g.config.Token.AccessTTL > maxTTL {
		maxTTL = g.config.Token.AccessTTL
	}
	grace := g.config.Revocation.TTLGrace

	claims, err := g.codec.Decode(raw)
	if err != nil && !errors.Is(err, token.ErrExpired) {
		claims = nil
	}
	if claims == nil {
		return revocation.Entry{
			TokenID:   internal.TokenDigest(raw),
			ExpiresAt: g.now().Add(maxTTL),
		}, maxTTL + grace
	}

	entry := revocation.Entry{
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.TokenType == token.TypeRefresh && claims.ID != "" {
		entry.TokenID = claims.ID
	} else {
		entry.TokenID = internal.TokenDigest(raw)
	}

	ttl := claims.ExpiresAt.Time.Sub(g.now()) + grace
	if ttl < time.Second {
		ttl = time.Second
	}
	return entry, ttl
}
