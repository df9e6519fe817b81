package authGate

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wheelmarket/authGate/internal/audit"
	"github.com/wheelmarket/authGate/revocation"
	"github.com/wheelmarket/authGate/token"
)

// Builder defines a public type used by authGate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  revocation.Store

	userProvider UserProvider
	auditSink    AuditSink
	logger       *zerolog.Logger

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRevocationStore overrides the Redis-backed default. Intended for tests
// and single-node setups using [revocation.MemoryStore].
func (b *Builder) WithRevocationStore(store revocation.Store) *Builder {
	b.store = store
	return b
}

// WithUserProvider describes the withuserprovider operation and its observable behavior.
//
// WithUserProvider may return an error when input validation, dependency calls, or security checks fail.
// WithUserProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger may return an error when input validation, dependency calls, or security checks fail.
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider is required")
	}

	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("revocation store required: provide WithRedis or WithRevocationStore")
		}
		store = revocation.NewRedisStore(b.redis, b.config.Revocation.KeyPrefix)
	}

	codec, err := token.NewCodec(token.Config{
		Secret:   b.config.Token.Secret,
		Issuer:   b.config.Token.Issuer,
		Audience: b.config.Token.Audience,
		Leeway:   b.config.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	issuer := NewIssuer(codec, b.config.Token)
	metrics := NewMetrics(b.config.Metrics)

	dispatcher := audit.NewDispatcher(audit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, b.auditSink)

	rotator := NewRotator(codec, issuer, store, b.userProvider, metrics, logger, b.config.Revocation.TTLGrace)

	gate := &Gate{
		config: b.config,
		codec:  codec,
		issuer: issuer,
		policy: Policy{
			InactivityLimit:         b.config.Session.InactivityLimit,
			PreemptiveRefreshWindow: b.config.Session.PreemptiveRefreshWindow,
		},
		store:   store,
		users:   b.userProvider,
		rotator: rotator,
		metrics: metrics,
		audit:   dispatcher,
		log:     logger,
		now:     time.Now,
	}

	b.built = true
	return gate, nil
}
