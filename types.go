package authguard

import (
	"context"

	"github.com/0ui-labs/authguard/ratelimit"
	"github.com/0ui-labs/authguard/revocation"
)

// UserProvider is the interface callers implement to integrate the engine
// with their user database. The engine never stores credentials itself.
//
// GetUserByEmail returns ErrUserNotFound (or an error wrapping it) for
// unknown emails. Lookups for unknown emails still count toward the login
// rate limiter, so providers should not distinguish missing accounts from
// wrong passwords in timing-observable ways.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
}

// PasswordHashUpdater is optionally implemented by a [UserProvider].
// When present, the engine persists upgraded Argon2 hashes after a
// successful login with Config.Password.UpgradeOnLogin set.
type PasswordHashUpdater interface {
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}

// UserRecord is the account record returned by [UserProvider].
type UserRecord struct {
	UserID       string
	Email        string
	PasswordHash string
	Active       bool
}

// LoginResult is returned by [Engine.Login] on success.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	UserID      string
}

// AuthResult is returned by [Engine.Validate] for an accepted token.
type AuthResult struct {
	UserID       string
	JTI          string
	TokenVersion int64
}

// LockedAccount describes one currently locked account, as reported by
// [Engine.LockedAccounts].
type LockedAccount = ratelimit.LockedAccount

// RevokedToken is the forensic blacklist record for a single JTI, as
// returned by [Engine.RevokedTokenEntry].
type RevokedToken = revocation.Entry
