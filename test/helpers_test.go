//go:build integration
// +build integration

package test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authguard "github.com/0ui-labs/authguard"
	"github.com/0ui-labs/authguard/password"
)

type memoryProvider struct {
	mu    sync.RWMutex
	users map[string]authguard.UserRecord
}

func newMemoryProvider() *memoryProvider {
	return &memoryProvider{users: make(map[string]authguard.UserRecord)}
}

func (p *memoryProvider) put(u authguard.UserRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.Email] = u
}

func (p *memoryProvider) GetUserByEmail(_ context.Context, email string) (authguard.UserRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.users[email]
	if !ok {
		return authguard.UserRecord{}, authguard.ErrUserNotFound
	}
	return u, nil
}

func (p *memoryProvider) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for email, u := range p.users {
		if u.UserID == userID {
			u.PasswordHash = newHash
			p.users[email] = u
			return nil
		}
	}
	return authguard.ErrUserNotFound
}

// redisMode describes which Redis backend the suite is running against.
// miniredis is always available; a real standalone server is added when
// REDIS_ADDR is set (e.g. "127.0.0.1:6379").
type redisMode struct {
	name  string
	setup func(t *testing.T) (redis.UniversalClient, func())
}

func redisModes(t *testing.T) []redisMode {
	t.Helper()

	modes := []redisMode{
		{
			name: "miniredis",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				mr, err := miniredis.Run()
				if err != nil {
					t.Fatalf("miniredis run failed: %v", err)
				}
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				return rdb, func() {
					_ = rdb.Close()
					mr.Close()
				}
			},
		},
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, redisMode{
			name: "redis",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				t.Helper()
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				if err := rdb.FlushDB(context.Background()).Err(); err != nil {
					t.Fatalf("flush failed: %v", err)
				}
				return rdb, func() { _ = rdb.Close() }
			},
		})
	}

	return modes
}

func integrationConfig() authguard.Config {
	cfg := authguard.DefaultConfig()
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.JWT.Issuer = "authguard-integration"
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

func newIntegrationEngine(t *testing.T, rdb redis.UniversalClient) (*authguard.Engine, *memoryProvider) {
	t.Helper()

	cfg := integrationConfig()

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		t.Fatalf("argon2 init failed: %v", err)
	}
	hash, err := hasher.Hash("correct-password-123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	provider := newMemoryProvider()
	provider.put(authguard.UserRecord{
		UserID:       "u1",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Active:       true,
	})

	engine, err := authguard.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(provider).
		WithWarnFunc(func(string, ...any) {}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, provider
}
