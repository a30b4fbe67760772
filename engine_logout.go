package authguard

import (
	"context"
	"time"
)

// Logout blacklists the token's JTI so it is rejected for the rest of its
// lifetime. An unparseable token returns [ErrTokenInvalid]; a Redis fault
// while writing the blacklist entry is logged and swallowed, so logout
// reports success even when the backend is down. The token then simply
// expires on its own.
func (e *Engine) Logout(ctx context.Context, tokenStr string) error {
	if e == nil || e.jwtManager == nil {
		return ErrEngineNotReady
	}

	claims, err := e.jwtManager.ParseAccess(tokenStr)
	if err != nil {
		return ErrTokenInvalid
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	if err := e.revocations.Blacklist(ctx, claims.ID, claims.Subject, exp); err != nil {
		e.warnf("authguard: logout blacklist write failed for %s: %v", claims.ID, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, AuditLogout, true, claims.Subject, "", claims.ID, nil, nil)
	return nil
}

// LogoutAll bumps the account's token version, invalidating every token
// minted before this call. Unlike [Engine.Logout] this propagates Redis
// faults: an all-device revocation that silently failed would leave every
// stolen token valid.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if e == nil || e.revocations == nil {
		return ErrEngineNotReady
	}

	if err := e.revocations.RevokeAllUserTokens(ctx, userID); err != nil {
		e.emitAudit(ctx, AuditLogoutAll, false, userID, "", "", err, nil)
		return err
	}

	e.metricInc(MetricLogoutAll)
	e.emitAudit(ctx, AuditLogoutAll, true, userID, "", "", nil, nil)
	return nil
}
