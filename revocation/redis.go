package revocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authentication gate.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrInvalidTTL is returned when an Add is attempted with a non-positive TTL.
var ErrInvalidTTL = errors.New("revocation ttl must be positive")

const defaultKeyPrefix = "rvk"

// RedisStore defines a public type used by authGate APIs.
//
// RedisStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(tokenID string) string {
	return s.prefix + ":" + tokenID
}

// Add inserts a revocation entry with SET NX semantics. The first writer for
// a given token identifier wins; every later writer observes added=false.
func (s *RedisStore) Add(ctx context.Context, entry Entry, ttl time.Duration) (bool, error) {
	if s == nil || s.redis == nil {
		return false, fmt.Errorf("%w: nil client", ErrRedisUnavailable)
	}
	if entry.TokenID == "" {
		return false, errors.New("revocation entry missing token id")
	}
	if ttl <= 0 {
		return false, ErrInvalidTTL
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("marshal revocation entry: %w", err)
	}

	added, err := s.redis.SetNX(ctx, s.key(entry.TokenID), data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return added, nil
}

// Contains describes the contains operation and its observable behavior.
//
// Contains may return an error when input validation, dependency calls, or security checks fail.
// Contains does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Contains(ctx context.Context, tokenID string) (bool, error) {
	if s == nil || s.redis == nil {
		return false, fmt.Errorf("%w: nil client", ErrRedisUnavailable)
	}
	if tokenID == "" {
		return false, nil
	}

	n, err := s.redis.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Get returns the stored entry for a revoked token identifier, or nil when
// the identifier is not revoked. Intended for admin tooling and debugging.
func (s *RedisStore) Get(ctx context.Context, tokenID string) (*Entry, error) {
	if s == nil || s.redis == nil {
		return nil, fmt.Errorf("%w: nil client", ErrRedisUnavailable)
	}

	data, err := s.redis.Get(ctx, s.key(tokenID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal revocation entry: %w", err)
	}
	return &entry, nil
}

// Ping verifies connectivity and reports the round-trip time.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	if s == nil || s.redis == nil {
		return 0, fmt.Errorf("%w: nil client", ErrRedisUnavailable)
	}

	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
