// Package authguard provides a Redis-backed login protection and token
// revocation engine: per-account brute-force lockouts with exponential
// backoff, a JTI blacklist for single-token logout, and version counters for
// all-device revocation.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authguard is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginResult, AuthResult, MetricsSnapshot). The Redis key
// mechanics live in the ratelimit and revocation sub-packages; user storage
// stays on the caller's side behind [UserProvider].
//
// # Failure semantics
//
// Redis degradation is handled per concern, not uniformly. The login rate
// limiter and the token version counter fail open: an outage must never lock
// every user out. The JTI blacklist fails closed: a token that might be
// revoked is rejected. [Engine.LogoutAll] propagates backend errors because a
// silently failed all-device revocation is worse than a visible one.
//
// # What this package must NOT do
//
//   - Expose Redis clients or key layouts in its public API.
//   - Store user credentials. Lookup goes through [UserProvider].
//   - Perform I/O during construction (Builder is allocation-only until Build).
package authguard
