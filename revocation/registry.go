package revocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	blacklistPrefix = "token_blacklist:"
	versionPrefix   = "user_token_version:"
)

// ErrRedisUnavailable indicates the revocation backend is unreachable.
var ErrRedisUnavailable = errors.New("revocation redis unavailable")

// Config holds revocation TTL policy.
type Config struct {
	BlacklistBuffer     time.Duration // added past token expiry
	DefaultBlacklistTTL time.Duration // for tokens without a known expiry
	VersionTTL          time.Duration // refreshed on every version bump
}

func (c Config) withDefaults() Config {
	if c.BlacklistBuffer <= 0 {
		c.BlacklistBuffer = 5 * time.Minute
	}
	if c.DefaultBlacklistTTL <= 0 {
		c.DefaultBlacklistTTL = 24 * time.Hour
	}
	if c.VersionTTL <= 0 {
		c.VersionTTL = 30 * 24 * time.Hour
	}
	return c
}

// Entry is the JSON payload stored per blacklisted token. Existence of the
// key, not the payload, is what revokes the token; the payload exists for
// operator forensics.
type Entry struct {
	UserID    string    `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
	JTI       string    `json:"jti"`
}

// Registry provides single-token and whole-account revocation backed by
// Redis.
type Registry struct {
	redis  redis.UniversalClient
	config Config
	warn   func(format string, args ...any)
	now    func() time.Time
}

// New creates a [Registry] backed by the given Redis client. Zero fields in
// cfg fall back to the production defaults (5 min buffer, 24 h default TTL,
// 30 d version TTL). warn receives backend fault notices; nil means
// [log.Printf].
func New(redisClient redis.UniversalClient, cfg Config, warn func(format string, args ...any)) *Registry {
	if warn == nil {
		warn = log.Printf
	}
	return &Registry{
		redis:  redisClient,
		config: cfg.withDefaults(),
		warn:   warn,
		now:    time.Now,
	}
}

func blacklistKey(jti string) string {
	return blacklistPrefix + jti
}

func versionKey(userID string) string {
	return versionPrefix + userID
}

// Blacklist revokes a single token by JTI. exp is the token's own expiry;
// pass the zero time when unknown. The entry TTL is exp−now plus the
// configured buffer, or the default TTL when the expiry is unknown or
// already in the past. Backend errors are returned to the caller, which
// decides whether a failed logout still reports success.
func (r *Registry) Blacklist(ctx context.Context, jti, userID string, exp time.Time) error {
	entry := Entry{
		UserID:    userID,
		RevokedAt: r.now().UTC(),
		JTI:       jti,
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	ttl := r.config.DefaultBlacklistTTL
	if !exp.IsZero() {
		if remaining := exp.Sub(r.now()); remaining > 0 {
			ttl = remaining + r.config.BlacklistBuffer
		}
	}

	if err := r.redis.Set(ctx, blacklistKey(jti), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// IsBlacklisted reports whether a token has been individually revoked.
// It fails CLOSED: when the backend is unreachable the token is treated as
// revoked, because granting access during an outage to a token the system
// meant to revoke is the worse failure.
func (r *Registry) IsBlacklisted(ctx context.Context, jti string) bool {
	n, err := r.redis.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		r.warn("revocation: blacklist check for jti %s failed closed: %v", jti, err)
		return true
	}
	return n > 0
}

// RevokeAllUserTokens invalidates every token minted for the account by
// incrementing its version counter; the counter TTL is refreshed to the
// configured version TTL. Backend errors are returned to the caller.
func (r *Registry) RevokeAllUserTokens(ctx context.Context, userID string) error {
	if err := r.redis.Incr(ctx, versionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if err := r.redis.Expire(ctx, versionKey(userID), r.config.VersionTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// UserTokenVersion returns the account's current token version; absence
// reads as 0. It fails OPEN: during an outage the version check is
// secondary to the blacklist check, and 0 avoids spuriously rejecting every
// outstanding token.
func (r *Registry) UserTokenVersion(ctx context.Context, userID string) int64 {
	version, err := r.redis.Get(ctx, versionKey(userID)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warn("revocation: version read for %s failed open: %v", userID, err)
		}
		return 0
	}
	return version
}

// Entry returns the stored payload for a blacklisted JTI, or false when the
// token is not blacklisted. Admin/forensics use only.
func (r *Registry) Entry(ctx context.Context, jti string) (Entry, bool, error) {
	raw, err := r.redis.Get(ctx, blacklistKey(jti)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// CleanupExpired exists for interface completeness: Redis TTLs already
// expire blacklist entries and version counters, so there is nothing to
// collect. Always returns 0.
func (r *Registry) CleanupExpired(ctx context.Context) int {
	return 0
}
