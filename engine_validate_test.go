package authguard

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func loginForToken(t *testing.T, engine *Engine) string {
	t.Helper()

	result, err := engine.Login(context.Background(), "alice@example.com", "correct-password-123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return result.AccessToken
}

func TestValidateReturnsAuthResult(t *testing.T) {
	up := newLoginProvider(t)
	engine, _, done := buildTestEngine(t, engineTestConfig(), up)
	defer done()

	token := loginForToken(t, engine)

	auth, err := engine.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if auth.UserID != "u1" {
		t.Fatalf("expected user u1, got %q", auth.UserID)
	}
	if auth.JTI == "" {
		t.Fatal("expected JTI to be populated")
	}
	if auth.TokenVersion != 0 {
		t.Fatalf("expected fresh account at version 0, got %d", auth.TokenVersion)
	}
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	up := newLoginProvider(t)
	engine, _, done := buildTestEngine(t, engineTestConfig(), up)
	defer done()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := engine.Validate(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", token, err)
		}
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	up := newLoginProvider(t)
	engine, _, done := buildTestEngine(t, engineTestConfig(), up)
	defer done()

	token := loginForToken(t, engine)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := engine.Validate(context.Background(), tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestValidateAfterLogoutRejectsBlacklisted(t *testing.T) {
	up := newLoginProvider(t)
	engine, _, done := buildTestEngine(t, engineTestConfig(), up)
	defer done()

	ctx := context.Background()
	token := loginForToken(t, engine)

	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.Validate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}
}

func TestValidateAfterLogoutAllRejectsStaleVersion(t *testing.T) {
	up := newLoginProvider(t)
	engine, _, done := buildTestEngine(t, engineTestConfig(), up)
	defer done()

	ctx := context.Background()
	oldToken := loginForToken(t, engine)

	if err := engine.LogoutAll(ctx, "u1"); err != nil {
		t.Fatalf("LogoutAll failed: %v", err)
	}
	if _, err := engine.Validate(ctx, oldToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked for stale version, got %v", err)
	}

	// A token minted after the bump validates.
	newToken := loginForToken(t, engine)
	auth, err := engine.Validate(ctx, newToken)
	if err != nil {
		t.Fatalf("Validate of fresh token failed: %v", err)
	}
	if auth.TokenVersion != 1 {
		t.Fatalf("expected version 1, got %d", auth.TokenVersion)
	}
}

func TestValidateBlacklistFailsClosedOnRedisOutage(t *testing.T) {
	up := newLoginProvider(t)
	engine, mr, done := buildTestEngine(t, engineTestConfig(), up)
	defer done()

	token := loginForToken(t, engine)
	mr.Close()

	if _, err := engine.Validate(context.Background(), token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked with backend down, got %v", err)
	}
}

func TestValidateLatencyHistogramObservesSamples(t *testing.T) {
	up := newLoginProvider(t)
	cfg := engineTestConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	engine, _, done := buildTestEngine(t, cfg, up)
	defer done()

	token := loginForToken(t, engine)
	if _, err := engine.Validate(context.Background(), token); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	var total uint64
	for _, n := range snap.Histograms[MetricValidateLatency] {
		total += n
	}
	if total == 0 {
		t.Fatal("expected at least one latency sample")
	}
}
