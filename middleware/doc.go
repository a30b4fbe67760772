// Package middleware exposes an HTTP adapter for bearer token enforcement
// built on authguard.Engine validation.
//
// [Guard] reads the Authorization header, calls Engine.Validate, and injects
// the validated result into the request context, retrievable with
// [AuthResultFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Leak the rejection reason to clients beyond a generic 401.
package middleware
