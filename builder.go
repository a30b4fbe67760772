package authguard

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/0ui-labs/authguard/jwt"
	"github.com/0ui-labs/authguard/password"
	"github.com/0ui-labs/authguard/ratelimit"
	"github.com/0ui-labs/authguard/revocation"
)

// Builder assembles an [Engine]. A Builder is single use: Build returns an
// error when called twice.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	userProvider UserProvider
	auditSink    AuditSink
	warn         func(format string, args ...any)

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the full configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the rate limiter and the
// revocation registry.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the credential lookup backend. Required.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the sink receiving audit events. Events are only
// emitted when Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithWarnFunc replaces the degraded-mode log hook. The default writes to
// the standard library logger.
func (b *Builder) WithWarnFunc(warn func(format string, args ...any)) *Builder {
	b.warn = warn
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the validation latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine components.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	engine := &Engine{
		config:       cloneConfig(cfg),
		userProvider: b.userProvider,
		warn:         b.warn,
	}

	engine.limiter = ratelimit.New(b.redis, ratelimit.Config{
		MaxAttempts:   cfg.RateLimit.MaxAttempts,
		BaseLockout:   cfg.RateLimit.BaseLockout,
		MaxLockout:    cfg.RateLimit.MaxLockout,
		AttemptWindow: cfg.RateLimit.AttemptWindow,
	}, b.warn)

	engine.revocations = revocation.New(b.redis, revocation.Config{
		BlacklistBuffer:     cfg.Revocation.BlacklistBuffer,
		DefaultBlacklistTTL: cfg.Revocation.DefaultBlacklistTTL,
		VersionTTL:          cfg.Revocation.VersionTTL,
	}, b.warn)

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewArgon2(password.Config{
		Memory:           cfg.Password.Memory,
		Time:             cfg.Password.Time,
		Parallelism:      cfg.Password.Parallelism,
		SaltLength:       cfg.Password.SaltLength,
		KeyLength:        cfg.Password.KeyLength,
		MaxPasswordBytes: cfg.Password.MaxPasswordBytes,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	jm, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}
	engine.jwtManager = jm

	b.built = true

	return engine, nil
}
