package revocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "rvk"), mr
}

func testEntry(tokenID string) Entry {
	return Entry{
		TokenID:   tokenID,
		UserID:    "user-1",
		Reason:    ReasonRotation,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestRedisStoreAddAndContains(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, testEntry("jti-1"), time.Hour)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !added {
		t.Fatal("first insert must report added")
	}

	revoked, err := store.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !revoked {
		t.Fatal("expected membership after add")
	}

	revoked, err = store.Contains(ctx, "jti-unknown")
	if err != nil {
		t.Fatalf("contains unknown: %v", err)
	}
	if revoked {
		t.Fatal("unknown id must not be revoked")
	}
}

func TestRedisStoreFirstWriterWins(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	if added, err := store.Add(ctx, testEntry("jti-nx"), time.Hour); err != nil || !added {
		t.Fatalf("first add = %v/%v", added, err)
	}

	second := testEntry("jti-nx")
	second.Reason = ReasonLogout
	added, err := store.Add(ctx, second, time.Hour)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if added {
		t.Fatal("second insert must lose")
	}

	// The original entry is untouched.
	entry, err := store.Get(ctx, "jti-nx")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry == nil || entry.Reason != ReasonRotation {
		t.Fatalf("expected original entry, got %+v", entry)
	}
}

func TestRedisStoreEntryExpires(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, testEntry("jti-ttl"), time.Minute); err != nil {
		t.Fatalf("add: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := store.Contains(ctx, "jti-ttl")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if revoked {
		t.Fatal("entry must expire with its ttl")
	}

	// Once expired, the id can be claimed again.
	added, err := store.Add(ctx, testEntry("jti-ttl"), time.Minute)
	if err != nil || !added {
		t.Fatalf("re-add after expiry = %v/%v", added, err)
	}
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := newRedisStore(t)

	entry, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil for missing entry, got %+v", entry)
	}
}

func TestRedisStoreRejectsBadInput(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Entry{}, time.Hour); err == nil {
		t.Fatal("expected error for missing token id")
	}
	if _, err := store.Add(ctx, testEntry("jti"), 0); !errors.Is(err, ErrInvalidTTL) {
		t.Fatalf("expected ErrInvalidTTL, got %v", err)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	mr.Close()

	if _, err := store.Add(ctx, testEntry("jti"), time.Hour); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from add, got %v", err)
	}
	if _, err := store.Contains(ctx, "jti"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from contains, got %v", err)
	}
	if _, err := store.Ping(ctx); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from ping, got %v", err)
	}
}

func TestRedisStorePing(t *testing.T) {
	store, _ := newRedisStore(t)

	rtt, err := store.Ping(context.Background())
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if rtt < 0 {
		t.Fatalf("negative rtt %s", rtt)
	}
}
