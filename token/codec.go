package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type defines a public type used by authGate APIs.
//
// Type instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Type string

const (
	// TypeAccess is an exported constant or variable used by the authentication gate.
	TypeAccess Type = "access"
	// TypeRefresh is an exported constant or variable used by the authentication gate.
	TypeRefresh Type = "refresh"
)

// ErrExpired is returned when a token is well formed and authentic but past its expiry.
var ErrExpired = errors.New("token expired")

// ErrMalformed is returned when a token cannot be parsed or fails a claim check.
var ErrMalformed = errors.New("token malformed")

// ErrBadSignature is returned when a token signature does not verify.
var ErrBadSignature = errors.New("token signature invalid")

// ErrEncoding is returned when a claim set cannot be signed.
var ErrEncoding = errors.New("token encoding failed")

const (
	minSecretLen = 32
	maxLeeway    = 2 * time.Minute
)

// Claims defines a public type used by authGate APIs.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims struct {
	UserID       string           `json:"userId"`
	Role         string           `json:"role"`
	TokenType    Type             `json:"type"`
	LastActivity *jwt.NumericDate `json:"lastActivity,omitempty"`
	jwt.RegisteredClaims
}

// Config defines a public type used by authGate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Codec defines a public type used by authGate APIs.
//
// Codec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Codec struct {
	config Config
}

// NewCodec describes the newcodec operation and its observable behavior.
//
// NewCodec may return an error when input validation, dependency calls, or security checks fail.
// NewCodec does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("hs256 secret must be at least %d bytes", minSecretLen)
	}
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("audience is required")
	}
	if cfg.Leeway < 0 || cfg.Leeway > maxLeeway {
		return nil, fmt.Errorf("leeway must be in [0, %s]", maxLeeway)
	}

	out := Config{
		Secret:   make([]byte, len(cfg.Secret)),
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Leeway:   cfg.Leeway,
	}
	copy(out.Secret, cfg.Secret)

	return &Codec{config: out}, nil
}

// Encode describes the encode operation and its observable behavior.
//
// Encode may return an error when input validation, dependency calls, or security checks fail.
// Encode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Codec) Encode(claims *Claims) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: nil codec", ErrEncoding)
	}
	if claims == nil || claims.UserID == "" {
		return "", fmt.Errorf("%w: missing subject", ErrEncoding)
	}
	if claims.TokenType != TypeAccess && claims.TokenType != TypeRefresh {
		return "", fmt.Errorf("%w: unknown token type %q", ErrEncoding, claims.TokenType)
	}
	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: missing expiry", ErrEncoding)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return signed, nil
}

// Decode verifies raw and returns its claim set. On [ErrExpired] the claims
// are still returned: callers that recover expired sessions through refresh
// rotation need the identity and activity timestamps from the stale token.
// Every other failure returns nil claims.
func (c *Codec) Decode(raw string) (*Claims, error) {
	if c == nil {
		return nil, ErrMalformed
	}
	if raw == "" {
		return nil, ErrMalformed
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.config.Issuer),
		jwt.WithAudience(c.config.Audience),
		jwt.WithExpirationRequired(),
	}
	if c.config.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(c.config.Leeway))
	}

	parsed, err := jwt.NewParser(opts...).ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return c.config.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenInvalidIssuer),
			errors.Is(err, jwt.ErrTokenInvalidAudience),
			errors.Is(err, jwt.ErrTokenNotValidYet),
			errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			if parsed != nil {
				if claims, ok := parsed.Claims.(*Claims); ok {
					return claims, ErrExpired
				}
			}
			return nil, ErrExpired
		default:
			return nil, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
