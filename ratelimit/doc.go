// Package ratelimit tracks failed login attempts per account and enforces
// temporary lockouts with exponential backoff.
//
// # Design
//
// All state lives in Redis under two key namespaces: a per-account failure
// counter ("failed_attempts:") with a rolling 24 h window, and a lockout
// marker ("account_locked:") whose value is the RFC 3339 lockout expiry and
// whose TTL equals the lockout duration. Lockout durations double every
// MaxAttempts additional failures, capped at MaxLockout.
//
// The limiter fails OPEN: a Redis fault during Check or RecordFailure yields
// a permissive zero result instead of an error, so an infrastructure outage
// can never lock legitimate users out. Callers that need the opposite
// posture belong in package revocation.
//
// # Architecture boundaries
//
// This package owns its Redis key namespaces and never touches keys of other
// packages. Policy thresholds come from [Config] at construction time.
//
// # What this package must NOT do
//
//   - Import authguard or any sibling package.
//   - Verify credentials — it only counts failures reported by the caller.
//   - Return errors from the admission path; fail-open is the contract.
package ratelimit
