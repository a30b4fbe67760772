package authguard

import "context"

// UnlockAccount removes an account's lockout and resets its failure counter.
// It reports whether an active lockout existed; the counter is cleared
// either way.
func (e *Engine) UnlockAccount(ctx context.Context, email string) bool {
	if e == nil || e.limiter == nil {
		return false
	}

	wasLocked := e.limiter.Unlock(ctx, email)
	if wasLocked {
		e.metricInc(MetricAccountUnlocked)
	}
	e.emitAudit(ctx, AuditAccountUnlocked, wasLocked, "", email, "", nil, func() map[string]string {
		if wasLocked {
			return map[string]string{"was_locked": "true"}
		}
		return map[string]string{"was_locked": "false"}
	})
	return wasLocked
}

// LockedAccounts lists every account with an active lockout. This scans the
// lockout keyspace and is intended for admin dashboards, not hot paths. On a
// Redis fault it returns nil.
func (e *Engine) LockedAccounts(ctx context.Context) []LockedAccount {
	if e == nil || e.limiter == nil {
		return nil
	}
	return e.limiter.LockedAccounts(ctx)
}

// RevokedTokenEntry looks up the forensic blacklist record for a JTI.
func (e *Engine) RevokedTokenEntry(ctx context.Context, jti string) (RevokedToken, bool, error) {
	if e == nil || e.revocations == nil {
		return RevokedToken{}, false, ErrEngineNotReady
	}
	return e.revocations.Entry(ctx, jti)
}
