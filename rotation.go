package authGate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wheelmarket/authGate/revocation"
	"github.com/wheelmarket/authGate/token"
)

// Rotator exchanges a usable refresh token for a new access+refresh pair,
// revoking the consumed token so it can never rotate twice. It is invoked by
// the gate when session policy demands recovery and by explicit refresh
// endpoints.
type Rotator struct {
	codec   *token.Codec
	issuer  *Issuer
	store   revocation.Store
	users   UserProvider
	metrics *Metrics
	log     zerolog.Logger
	grace   time.Duration
	now     func() time.Time
}

// NewRotator describes the newrotator operation and its observable behavior.
//
// NewRotator may return an error when input validation, dependency calls, or security checks fail.
// NewRotator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRotator(codec *token.Codec, issuer *Issuer, store revocation.Store, users UserProvider, metrics *Metrics, log zerolog.Logger, grace time.Duration) *Rotator {
	return &Rotator{
		codec:   codec,
		issuer:  issuer,
		store:   store,
		users:   users,
		metrics: metrics,
		log:     log,
		grace:   grace,
		now:     time.Now,
	}
}

// Rotate validates refreshToken, claims it in the revocation store, and
// mints a replacement pair from the current user record. On any failure the
// session state is unchanged: no tokens are minted and, except for the
// revocation insert that detected the failure, nothing is written.
//
// The returned errors are the typed rotation failures ([ErrRefreshInvalid],
// [ErrRefreshRevoked], [ErrRefreshReuse], [ErrUserNotFound],
// [ErrUserSuspended]) or a wrapped infrastructure error.
func (r *Rotator) Rotate(ctx context.Context, refreshToken string) (TokenPair, Principal, error) {
	var none TokenPair

	claims, err := r.codec.Decode(refreshToken)
	if err != nil {
		// An expired refresh token is exactly as unusable as a forged one.
		r.metrics.Inc(MetricRotationFailure)
		return none, Principal{}, ErrRefreshInvalid
	}
	if claims.TokenType != token.TypeRefresh || claims.ID == "" {
		r.metrics.Inc(MetricRotationFailure)
		return none, Principal{}, ErrRefreshInvalid
	}

	revoked, err := r.store.Contains(ctx, claims.ID)
	if err != nil {
		// Fail-open on lookup: the blacklist going down must not log every
		// user out. The NX insert below still fails closed.
		r.metrics.Inc(MetricRevocationFailOpen)
		r.log.Warn().Err(err).Str("token_id", claims.ID).Msg("revocation lookup failed during rotation, continuing fail-open")
		revoked = false
	}
	if revoked {
		r.metrics.Inc(MetricRotationFailure)
		return none, Principal{}, ErrRefreshRevoked
	}

	user, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		r.metrics.Inc(MetricRotationFailure)
		if errors.Is(err, ErrUserNotFound) {
			return none, Principal{}, ErrUserNotFound
		}
		// Fail-closed: new credentials are only minted for a confirmed
		// active user.
		return none, Principal{}, fmt.Errorf("%w: %v", ErrUserLookupUnavailable, err)
	}
	if user.Status != AccountActive {
		r.metrics.Inc(MetricRotationFailure)
		return none, Principal{}, ErrUserSuspended
	}

	// Claim the rotation before minting anything: the first insert wins, so
	// a duplicate request racing on the same refresh token loses here and
	// the token rotates at most once.
	added, err := r.store.Add(ctx, revocation.Entry{
		TokenID:   claims.ID,
		UserID:    user.UserID,
		Reason:    revocation.ReasonRotation,
		ExpiresAt: claims.ExpiresAt.Time,
	}, r.revocationTTL(claims))
	if err != nil {
		r.metrics.Inc(MetricRotationFailure)
		return none, Principal{}, err
	}
	if !added {
		r.metrics.Inc(MetricRotationRaceLost)
		r.metrics.Inc(MetricRotationFailure)
		return none, Principal{}, ErrRefreshReuse
	}

	// Role comes from the user record, not the consumed token, so role
	// changes take effect at the next rotation.
	principal := Principal{UserID: user.UserID, Role: user.Role}

	pair, err := r.issuer.Pair(principal)
	if err != nil {
		r.metrics.Inc(MetricRotationFailure)
		return none, Principal{}, err
	}

	r.metrics.Inc(MetricRotationSuccess)
	r.metrics.Inc(MetricTokenRevoked)
	return pair, principal, nil
}

// The entry must outlive the token it revokes; the grace pads against clock
// skew between nodes.
func (r *Rotator) revocationTTL(claims *token.Claims) time.Duration {
	remaining := claims.ExpiresAt.Time.Sub(r.now()) + r.grace
	if remaining < time.Second {
		remaining = time.Second
	}
	return remaining
}
