package test

import (
	"context"
	"net/http"
	"testing"

	authguard "github.com/0ui-labs/authguard"
	"github.com/0ui-labs/authguard/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = authguard.New

	var _ *authguard.Engine
	var _ authguard.Config
	var _ authguard.AuthResult
	var _ authguard.LoginResult
	var _ authguard.UserRecord
	var _ authguard.LockedAccount
	var _ authguard.RevokedToken
	var _ authguard.UserProvider
	var _ authguard.PasswordHashUpdater
	var _ authguard.AuditSink
	var _ authguard.AuditEvent

	var _ error = authguard.ErrInvalidCredentials
	var _ error = authguard.ErrUserNotFound
	var _ error = authguard.ErrAccountLocked
	var _ error = authguard.ErrTokenInvalid
	var _ error = authguard.ErrTokenRevoked
	var _ error = authguard.ErrEngineNotReady
	var _ error = &authguard.LockoutError{}
	var _ error = &authguard.CredentialsError{}

	var _ func(*authguard.Engine) func(http.Handler) http.Handler = middleware.Guard

	var _ func(*authguard.Engine, context.Context, string, string) (*authguard.LoginResult, error) = (*authguard.Engine).Login
	var _ func(*authguard.Engine, context.Context, string) (*authguard.AuthResult, error) = (*authguard.Engine).Validate
	var _ func(*authguard.Engine, context.Context, string) error = (*authguard.Engine).Logout
	var _ func(*authguard.Engine, context.Context, string) error = (*authguard.Engine).LogoutAll
	var _ func(*authguard.Engine, context.Context, string) bool = (*authguard.Engine).UnlockAccount
	var _ func(*authguard.Engine, context.Context) []authguard.LockedAccount = (*authguard.Engine).LockedAccounts
}

func TestDefaultConfigBaseline(t *testing.T) {
	cfg := authguard.DefaultConfig()

	if cfg.RateLimit.MaxAttempts != 5 {
		t.Fatalf("expected 5 login attempts before lockout, got %d", cfg.RateLimit.MaxAttempts)
	}
	if cfg.Metrics.Enabled || cfg.Audit.Enabled {
		t.Fatal("expected observability opt-in, not default-on")
	}
	if cfg.Security.ProductionMode {
		t.Fatal("expected production hardening disabled in the baseline")
	}

	// The baseline deliberately ships without key material; it must not
	// validate until the caller supplies a key.
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected baseline without key material to fail validation")
	}
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected keyed baseline to validate, got %v", err)
	}
}
