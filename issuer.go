package authGate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wheelmarket/authGate/token"
)

// Issuer mints access and refresh claim sets for a principal and hands them
// to the codec. Minting is pure signing: it performs no I/O and cannot
// observe revocation or user state, which is why callers revoke before they
// mint.
type Issuer struct {
	codec *token.Codec
	cfg   TokenConfig
	now   func() time.Time
}

// NewIssuer describes the newissuer operation and its observable behavior.
//
// NewIssuer may return an error when input validation, dependency calls, or security checks fail.
// NewIssuer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewIssuer(codec *token.Codec, cfg TokenConfig) *Issuer {
	return &Issuer{
		codec: codec,
		cfg:   cfg,
		now:   time.Now,
	}
}

// AccessToken mints an access token whose activity claim is set to
// lastActivity. Steady-state requests pass the current instant, which is
// what implements the sliding inactivity window.
func (i *Issuer) AccessToken(p Principal, lastActivity time.Time) (string, error) {
	now := i.now()

	claims := &token.Claims{
		UserID:       p.UserID,
		Role:         p.Role,
		TokenType:    token.TypeAccess,
		LastActivity: jwt.NewNumericDate(lastActivity),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTTL)),
		},
	}

	return i.codec.Encode(claims)
}

// RefreshToken mints a refresh token and returns its serialization together
// with the jti under which it can later be revoked.
func (i *Issuer) RefreshToken(p Principal) (string, string, error) {
	now := i.now()
	tokenID := uuid.NewString()

	claims := &token.Claims{
		UserID:    p.UserID,
		Role:      p.Role,
		TokenType: token.TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   p.UserID,
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshTTL)),
		},
	}

	signed, err := i.codec.Encode(claims)
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}

// Pair mints a full access+refresh pair, as issued at login and after every
// rotation.
func (i *Issuer) Pair(p Principal) (TokenPair, error) {
	now := i.now()

	access, err := i.AccessToken(p, now)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, tokenID, err := i.RefreshToken(p)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:    access,
		RefreshToken:   refresh,
		RefreshTokenID: tokenID,
	}, nil
}
