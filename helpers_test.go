package authGate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wheelmarket/authGate/revocation"
	"github.com/wheelmarket/authGate/token"
)

type stubUserProvider struct {
	users map[string]UserRecord
	err   error
}

func (s *stubUserProvider) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	if s.err != nil {
		return UserRecord{}, s.err
	}
	user, ok := s.users[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

// failingStore simulates a revocation backend outage.
type failingStore struct {
	failContains bool
	failAdd      bool
	inner        *revocation.MemoryStore
}

func (f *failingStore) Add(ctx context.Context, entry revocation.Entry, ttl time.Duration) (bool, error) {
	if f.failAdd {
		return false, errors.New("store down")
	}
	return f.inner.Add(ctx, entry, ttl)
}

func (f *failingStore) Contains(ctx context.Context, tokenID string) (bool, error) {
	if f.failContains {
		return false, errors.New("store down")
	}
	return f.inner.Contains(ctx, tokenID)
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Token.Leeway = 0
	cfg.Cookies.Secure = false
	return cfg
}

func testUsers() map[string]UserRecord {
	return map[string]UserRecord{
		"user-1":  {UserID: "user-1", Role: RoleUser, Status: AccountActive},
		"mod-1":   {UserID: "mod-1", Role: RoleModerator, Status: AccountActive},
		"admin-1": {UserID: "admin-1", Role: RoleAdmin, Status: AccountActive},
		"frozen":  {UserID: "frozen", Role: RoleUser, Status: AccountSuspended},
	}
}

func newTestGate(t *testing.T, mutate ...func(*Config)) (*Gate, *stubUserProvider, *revocation.MemoryStore) {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	up := &stubUserProvider{users: testUsers()}
	store := revocation.NewMemoryStore()

	gate, err := New().
		WithConfig(cfg).
		WithRevocationStore(store).
		WithUserProvider(up).
		Build()
	if err != nil {
		t.Fatalf("build gate: %v", err)
	}
	t.Cleanup(gate.Close)

	return gate, up, store
}

// mintAccess crafts an access token with explicit timestamps so tests can
// place a session anywhere in its lifecycle without sleeping.
func mintAccess(t *testing.T, g *Gate, userID, role string, lastActivity, expiresAt time.Time) string {
	t.Helper()

	claims := &token.Claims{
		UserID:       userID,
		Role:         role,
		TokenType:    token.TypeAccess,
		LastActivity: jwt.NewNumericDate(lastActivity),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    g.config.Token.Issuer,
			Audience:  jwt.ClaimStrings{g.config.Token.Audience},
			IssuedAt:  jwt.NewNumericDate(lastActivity),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	raw, err := g.codec.Encode(claims)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return raw
}

func mintRefresh(t *testing.T, g *Gate, userID, role, tokenID string, expiresAt time.Time) string {
	t.Helper()

	claims := &token.Claims{
		UserID:    userID,
		Role:      role,
		TokenType: token.TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID,
			Issuer:    g.config.Token.Issuer,
			Audience:  jwt.ClaimStrings{g.config.Token.Audience},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	raw, err := g.codec.Encode(claims)
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}
	return raw
}

func wantRejection(t *testing.T, err error, code Code) *Rejection {
	t.Helper()

	rej, ok := AsRejection(err)
	if !ok {
		t.Fatalf("expected rejection %s, got %v", code, err)
	}
	if rej.Code != code {
		t.Fatalf("expected code %s, got %s", code, rej.Code)
	}
	return rej
}
