package authguard

import (
	"context"
	"log"
	"time"

	"github.com/0ui-labs/authguard/jwt"
	"github.com/0ui-labs/authguard/password"
	"github.com/0ui-labs/authguard/ratelimit"
	"github.com/0ui-labs/authguard/revocation"
)

// Engine is the authentication front door: login with brute-force
// protection, token validation against the revocation registry, and
// logout. Build one with [New] and share it across goroutines.
type Engine struct {
	config       Config
	userProvider UserProvider
	limiter      *ratelimit.Limiter
	revocations  *revocation.Registry
	passwordHash *password.Argon2
	jwtManager   *jwt.Manager
	audit        *auditDispatcher
	metrics      *Metrics
	warn         func(format string, args ...any)
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) warnf(format string, args ...any) {
	if e == nil {
		return
	}
	if e.warn != nil {
		e.warn(format, args...)
		return
	}
	log.Printf(format, args...)
}

// emitAudit queues one event on the dispatcher. meta is a closure so the
// metadata map is only allocated when audit is enabled.
func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, userID, email, jti string, failure error, meta func() map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		JTI:       jti,
		Success:   success,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	if meta != nil {
		event.Metadata = meta()
	}

	e.audit.Emit(ctx, event)
}
