package authguard

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by the user provider for unknown emails.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountLocked is returned while a lockout window is active.
	ErrAccountLocked = errors.New("account locked")
	// ErrTokenInvalid is returned for tokens that fail signature or claim checks.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenRevoked is returned for blacklisted or version-stale tokens.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrEngineNotReady is returned when a method is called before Build succeeded.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// LockoutError carries the lockout deadline alongside ErrAccountLocked so
// callers can render a Retry-After without string parsing.
type LockoutError struct {
	Email       string
	LockedUntil time.Time
	Attempts    int64
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("account locked until %s after %d failed attempts",
		e.LockedUntil.Format(time.RFC3339), e.Attempts)
}

func (e *LockoutError) Unwrap() error { return ErrAccountLocked }

// Remaining returns the seconds left on the lockout at now, floored at zero.
func (e *LockoutError) Remaining(now time.Time) int64 {
	left := e.LockedUntil.Sub(now)
	if left <= 0 {
		return 0
	}
	return int64(left.Seconds()) + 1
}

// CredentialsError carries the attempts left before lockout alongside
// ErrInvalidCredentials.
type CredentialsError struct {
	RemainingAttempts int64
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempts remaining", e.RemainingAttempts)
}

func (e *CredentialsError) Unwrap() error { return ErrInvalidCredentials }
