package authguard

import (
	"errors"
	"time"
)

// Config is the root engine configuration. Instances are configured during
// initialization and treated as immutable afterwards.
type Config struct {
	JWT        JWTConfig
	RateLimit  RateLimitConfig
	Revocation RevocationConfig
	Password   PasswordConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
	Security   SecurityConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures access token minting and verification.
type JWTConfig struct {
	AccessTTL     time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig configures the login failure limiter. Lockout duration
// doubles every MaxAttempts additional failures, capped at MaxLockout.
type RateLimitConfig struct {
	MaxAttempts   int
	BaseLockout   time.Duration
	MaxLockout    time.Duration
	AttemptWindow time.Duration
}

/*
====================================
REVOCATION CONFIG
====================================
*/

// RevocationConfig configures the token blacklist and version counters.
type RevocationConfig struct {
	BlacklistBuffer     time.Duration
	DefaultBlacklistTTL time.Duration
	VersionTTL          time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds Argon2id parameters. Memory is in KB.
// MaxPasswordBytes of 0 means the hasher default.
type PasswordConfig struct {
	Memory           uint32
	Time             uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MaxPasswordBytes int
	UpgradeOnLogin   bool
}

// AuditConfig configures the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig configures the in-process metric counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig holds hardening toggles. ProductionMode tightens validation
// at Build time but changes no runtime behavior.
type SecurityConfig struct {
	ProductionMode bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration New starts from. Callers that only
// need to adjust a few fields can mutate the returned value and pass it to
// WithConfig.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     time.Hour,
			SigningMethod: "hs256",
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   5,
			BaseLockout:   time.Minute,
			MaxLockout:    8 * time.Hour,
			AttemptWindow: 24 * time.Hour,
		},
		Revocation: RevocationConfig{
			BlacklistBuffer:     5 * time.Minute,
			DefaultBlacklistTTL: 24 * time.Hour,
			VersionTTL:          30 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:         65536,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Security: SecurityConfig{
			ProductionMode: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks internal consistency of the configuration.
func (c *Config) Validate() error {
	// JWT
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}
	if c.JWT.SigningMethod != "hs256" && c.JWT.SigningMethod != "ed25519" {
		return errors.New("unsupported JWT signing method")
	}
	if len(c.JWT.PrivateKey) == 0 {
		return errors.New("JWT PrivateKey is required")
	}
	if c.JWT.SigningMethod == "ed25519" && len(c.JWT.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}

	// Rate limit
	if c.RateLimit.MaxAttempts <= 0 {
		return errors.New("RateLimit MaxAttempts must be > 0")
	}
	if c.RateLimit.BaseLockout <= 0 {
		return errors.New("RateLimit BaseLockout must be > 0")
	}
	if c.RateLimit.MaxLockout < c.RateLimit.BaseLockout {
		return errors.New("RateLimit MaxLockout must be >= BaseLockout")
	}
	if c.RateLimit.AttemptWindow <= 0 {
		return errors.New("RateLimit AttemptWindow must be > 0")
	}

	// Revocation
	if c.Revocation.BlacklistBuffer < 0 {
		return errors.New("Revocation BlacklistBuffer must be >= 0")
	}
	if c.Revocation.DefaultBlacklistTTL <= 0 {
		return errors.New("Revocation DefaultBlacklistTTL must be > 0")
	}
	if c.Revocation.VersionTTL <= 0 {
		return errors.New("Revocation VersionTTL must be > 0")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}
	if c.Password.MaxPasswordBytes < 0 {
		return errors.New("Password MaxPasswordBytes must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	if c.Security.ProductionMode {
		if c.JWT.AccessTTL > 24*time.Hour {
			return errors.New("ProductionMode requires JWT AccessTTL <= 24h")
		}
		if c.JWT.SigningMethod == "hs256" && len(c.JWT.PrivateKey) < 32 {
			return errors.New("ProductionMode requires hs256 key length >= 256 bits")
		}
		if c.Password.Memory < 64*1024 {
			return errors.New("ProductionMode requires Password Memory >= 65536 KB")
		}
		if c.Password.Time < 2 {
			return errors.New("ProductionMode requires Password Time >= 2")
		}
		if c.Password.KeyLength < 32 {
			return errors.New("ProductionMode requires Password KeyLength >= 32")
		}
	}

	return nil
}
