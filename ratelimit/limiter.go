package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	attemptPrefix = "failed_attempts:"
	lockoutPrefix = "account_locked:"

	scanBatch = 100
)

// ErrRedisUnavailable indicates the rate limit backend is unreachable.
// It is only ever logged through the warn hook; the public API fails open.
var ErrRedisUnavailable = errors.New("ratelimit redis unavailable")

// Config holds lockout policy thresholds.
type Config struct {
	MaxAttempts   int           // failures before lockout
	BaseLockout   time.Duration // first lockout duration
	MaxLockout    time.Duration // backoff cap
	AttemptWindow time.Duration // rolling window for the failure counter
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BaseLockout <= 0 {
		c.BaseLockout = time.Minute
	}
	if c.MaxLockout <= 0 {
		c.MaxLockout = 8 * time.Hour
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = 24 * time.Hour
	}
	return c
}

// Decision is the admission result for a login attempt.
// LockedUntil is the zero time when no active lockout exists.
type Decision struct {
	Allowed     bool
	LockedUntil time.Time
	Attempts    int
}

// FailureResult reports the counter state after a recorded failure.
// LockedUntil is the zero time when the account is not locked.
type FailureResult struct {
	Attempts    int
	LockedUntil time.Time
}

// LockedAccount is one row of the admin lockout listing.
type LockedAccount struct {
	Email          string
	LockedUntil    time.Time
	FailedAttempts int
}

// Limiter enforces per-account login admission with exponential backoff
// lockouts, backed by Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
	warn   func(format string, args ...any)
	now    func() time.Time
}

// New creates a [Limiter] backed by the given Redis client. Zero fields in
// cfg fall back to the production defaults (5 attempts, 1 min base lockout,
// 8 h cap, 24 h window). warn receives backend fault notices; nil means
// [log.Printf].
func New(redisClient redis.UniversalClient, cfg Config, warn func(format string, args ...any)) *Limiter {
	if warn == nil {
		warn = log.Printf
	}
	return &Limiter{
		redis:  redisClient,
		config: cfg.withDefaults(),
		warn:   warn,
		now:    time.Now,
	}
}

func attemptKey(email string) string {
	return attemptPrefix + email
}

func lockoutKey(email string) string {
	return lockoutPrefix + email
}

// Check reports whether the account may attempt a login. An expired lockout
// marker is deleted lazily on the way through. Redis faults fail open:
// the returned [Decision] allows the attempt with zero counters.
func (l *Limiter) Check(ctx context.Context, email string) Decision {
	lockedUntil, held, err := l.activeLockout(ctx, email)
	if err != nil {
		l.warn("ratelimit: check for %s failed open: %v", email, err)
		return Decision{Allowed: true}
	}
	if held {
		attempts, err := l.attemptCount(ctx, email)
		if err != nil {
			l.warn("ratelimit: check for %s failed open: %v", email, err)
			return Decision{Allowed: true}
		}
		return Decision{Allowed: false, LockedUntil: lockedUntil, Attempts: attempts}
	}

	attempts, err := l.attemptCount(ctx, email)
	if err != nil {
		l.warn("ratelimit: check for %s failed open: %v", email, err)
		return Decision{Allowed: true}
	}
	return Decision{Allowed: true, Attempts: attempts}
}

// RecordFailure increments the failure counter and locks the account once
// the threshold is reached. While an active lockout is held the counter is
// left untouched and the existing lockout is returned unchanged. Redis
// faults fail open with a zero [FailureResult].
func (l *Limiter) RecordFailure(ctx context.Context, email string) FailureResult {
	lockedUntil, held, err := l.activeLockout(ctx, email)
	if err != nil {
		l.warn("ratelimit: unable to record failed attempt for %s: %v", email, err)
		return FailureResult{}
	}
	if held {
		attempts, err := l.attemptCount(ctx, email)
		if err != nil {
			l.warn("ratelimit: unable to record failed attempt for %s: %v", email, err)
			return FailureResult{}
		}
		return FailureResult{Attempts: attempts, LockedUntil: lockedUntil}
	}

	count, err := l.redis.Incr(ctx, attemptKey(email)).Result()
	if err != nil {
		l.warn("ratelimit: unable to record failed attempt for %s: %v", email, err)
		return FailureResult{}
	}

	// First failure in a clean window starts the rolling 24 h expiry.
	if count == 1 {
		if err := l.redis.Expire(ctx, attemptKey(email), l.config.AttemptWindow).Err(); err != nil {
			l.warn("ratelimit: unable to record failed attempt for %s: %v", email, err)
			return FailureResult{}
		}
	}

	if count >= int64(l.config.MaxAttempts) {
		duration := l.lockoutDuration(count)
		until := l.now().UTC().Add(duration)

		err := l.redis.Set(ctx, lockoutKey(email), until.Format(time.RFC3339Nano), duration).Err()
		if err != nil {
			l.warn("ratelimit: unable to record failed attempt for %s: %v", email, err)
			return FailureResult{}
		}

		l.warn("ratelimit: account %s locked for %s after %d failed attempts", email, duration, count)
		return FailureResult{Attempts: int(count), LockedUntil: until}
	}

	return FailureResult{Attempts: int(count)}
}

// Clear removes the failure counter and any lockout after a verified
// successful login. Redis faults are logged, never surfaced: a successful
// login must not be blocked by infrastructure issues. Clearing an already
// clean account is a no-op.
func (l *Limiter) Clear(ctx context.Context, email string) {
	if err := l.redis.Del(ctx, attemptKey(email), lockoutKey(email)).Err(); err != nil {
		l.warn("ratelimit: unable to clear failed attempts for %s: %v", email, err)
	}
}

// Unlock removes the lockout and failure counter for an account (admin
// operation). It reports whether an active lockout existed; both keys are
// deleted regardless.
func (l *Limiter) Unlock(ctx context.Context, email string) bool {
	wasLocked, err := l.redis.Exists(ctx, lockoutKey(email)).Result()
	if err != nil {
		l.warn("ratelimit: unlock for %s failed: %v", email, err)
		return false
	}

	if err := l.redis.Del(ctx, lockoutKey(email), attemptKey(email)).Err(); err != nil {
		l.warn("ratelimit: unlock for %s failed: %v", email, err)
		return false
	}

	return wasLocked > 0
}

// LockedAccounts scans all lockout keys and returns the accounts whose
// lockout expiry is still in the future, joined with their failure counts.
// This is an admin-only O(n) operation and must not be used on request hot
// paths. Redis faults yield a nil slice.
func (l *Limiter) LockedAccounts(ctx context.Context) []LockedAccount {
	var (
		cursor uint64
		locked []LockedAccount
	)

	for {
		keys, next, err := l.redis.Scan(ctx, cursor, lockoutPrefix+"*", scanBatch).Result()
		if err != nil {
			l.warn("ratelimit: locked account scan failed: %v", err)
			return nil
		}

		for _, key := range keys {
			email := strings.TrimPrefix(key, lockoutPrefix)

			raw, err := l.redis.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				l.warn("ratelimit: locked account scan failed: %v", err)
				return nil
			}

			until, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil || !until.After(l.now()) {
				continue
			}

			attempts, cntErr := l.attemptCount(ctx, email)
			if cntErr != nil {
				l.warn("ratelimit: locked account scan failed: %v", cntErr)
				return nil
			}

			locked = append(locked, LockedAccount{
				Email:          email,
				LockedUntil:    until,
				FailedAttempts: attempts,
			})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return locked
}

// activeLockout reads the lockout marker. A marker whose expiry has passed
// (or whose value cannot be parsed) is deleted lazily and reported as absent.
func (l *Limiter) activeLockout(ctx context.Context, email string) (time.Time, bool, error) {
	raw, err := l.redis.Get(ctx, lockoutKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, wrapUnavailable(err)
	}

	until, parseErr := time.Parse(time.RFC3339Nano, raw)
	if parseErr == nil && until.After(l.now()) {
		return until, true, nil
	}

	if err := l.redis.Del(ctx, lockoutKey(email)).Err(); err != nil {
		return time.Time{}, false, wrapUnavailable(err)
	}
	return time.Time{}, false, nil
}

func (l *Limiter) attemptCount(ctx context.Context, email string) (int, error) {
	count, err := l.redis.Get(ctx, attemptKey(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, wrapUnavailable(err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

// lockoutDuration doubles the base duration once every MaxAttempts failures
// past the threshold: counts 5, 10, 15, 20 yield 1, 2, 4, 8 minutes with the
// default config, capped at MaxLockout.
func (l *Limiter) lockoutDuration(count int64) time.Duration {
	step := (count - int64(l.config.MaxAttempts)) / int64(l.config.MaxAttempts)
	if step > 30 {
		return l.config.MaxLockout
	}

	duration := l.config.BaseLockout * (1 << step)
	if duration <= 0 || duration > l.config.MaxLockout {
		return l.config.MaxLockout
	}
	return duration
}

func wrapUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
}
