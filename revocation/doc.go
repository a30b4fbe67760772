// Package revocation invalidates issued access tokens ahead of their natural
// expiry, consulted on every authenticated request.
//
// # Design
//
// Two independent mechanisms share a [Registry]:
//
//   - A per-token blacklist keyed by JTI ("token_blacklist:"), used for
//     single-session logout. Entries carry a JSON payload and expire at the
//     token's own expiry plus a small buffer, so the blacklist never grows
//     past the live token population.
//   - A per-account version counter ("user_token_version:"), used for
//     logout-everywhere. Tokens embed the version current at mint time; any
//     token whose embedded version is below the stored counter is rejected.
//
// Failure postures are deliberately asymmetric: the blacklist existence
// check fails CLOSED (an unreachable backend treats the token as revoked),
// while the version read fails OPEN (reads as 0 so an outage cannot reject
// every token in the fleet). Write operations propagate backend errors and
// leave the report-success-anyway decision to the caller.
//
// # Architecture boundaries
//
// This package owns its Redis key namespaces and never touches keys of other
// packages. Token parsing and signature checks belong to package jwt.
//
// # What this package must NOT do
//
//   - Import authguard or any sibling package.
//   - Decode or verify credentials — callers hand it bare JTIs and IDs.
//   - Soften the fail-closed posture of [Registry.IsBlacklisted].
package revocation
