package authguard

import (
	"context"
	"time"
)

// Login authenticates email and password and mints an access token.
//
// Failed attempts count toward the account lockout regardless of whether the
// email exists, so enumeration through the limiter is not possible. While a
// lockout is active Login returns a [*LockoutError]; on a wrong password it
// returns a [*CredentialsError] carrying the attempts left. A Redis outage
// never blocks login: the limiter degrades to allowing attempts.
func (e *Engine) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	if e == nil || e.passwordHash == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	decision := e.limiter.Check(ctx, email)
	if !decision.Allowed {
		e.metricInc(MetricLoginRateLimited)
		lockErr := &LockoutError{
			Email:       email,
			LockedUntil: decision.LockedUntil,
			Attempts:    int64(decision.Attempts),
		}
		e.emitAudit(ctx, AuditLoginRateLimited, false, "", email, "", lockErr, nil)
		return nil, lockErr
	}

	user, err := e.userProvider.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, e.failLogin(ctx, email, "", "user_not_found")
	}

	ok, err := e.passwordHash.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		return nil, e.failLogin(ctx, email, user.UserID, "password_mismatch")
	}

	if !user.Active {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, user.UserID, email, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "account_inactive"}
		})
		return nil, ErrInvalidCredentials
	}

	e.limiter.Clear(ctx, email)

	if e.config.Password.UpgradeOnLogin {
		e.maybeUpgradeHash(ctx, user, pass)
	}
	pass = ""

	version := e.revocations.UserTokenVersion(ctx, user.UserID)

	token, err := e.jwtManager.CreateAccess(user.UserID, version)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, user.UserID, email, "", err, func() map[string]string {
			return map[string]string{"reason": "token_mint_failed"}
		})
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditLoginSuccess, true, user.UserID, email, "", nil, nil)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(e.jwtManager.AccessTTL() / time.Second),
		UserID:      user.UserID,
	}, nil
}

// failLogin records the failed attempt and maps the counter state to either
// a fresh lockout or a remaining-attempts error.
func (e *Engine) failLogin(ctx context.Context, email, userID, reason string) error {
	result := e.limiter.RecordFailure(ctx, email)

	if !result.LockedUntil.IsZero() {
		e.metricInc(MetricLoginFailure)
		e.metricInc(MetricAccountLocked)
		lockErr := &LockoutError{
			Email:       email,
			LockedUntil: result.LockedUntil,
			Attempts:    int64(result.Attempts),
		}
		e.emitAudit(ctx, AuditAccountLocked, false, userID, email, "", lockErr, func() map[string]string {
			return map[string]string{"reason": reason}
		})
		return lockErr
	}

	remaining := int64(e.config.RateLimit.MaxAttempts - result.Attempts)
	if remaining < 0 {
		remaining = 0
	}

	e.metricInc(MetricLoginFailure)
	credErr := &CredentialsError{RemainingAttempts: remaining}
	e.emitAudit(ctx, AuditLoginFailure, false, userID, email, "", credErr, func() map[string]string {
		return map[string]string{"reason": reason}
	})
	return credErr
}

// maybeUpgradeHash rehashes with the current parameters when the stored hash
// is weaker and the provider supports writes. Best effort: a provider write
// failure must not block the login.
func (e *Engine) maybeUpgradeHash(ctx context.Context, user UserRecord, pass string) {
	updater, ok := e.userProvider.(PasswordHashUpdater)
	if !ok {
		return
	}

	needs, err := e.passwordHash.NeedsUpgrade(user.PasswordHash)
	if err != nil || !needs {
		return
	}

	upgraded, err := e.passwordHash.Hash(pass)
	if err != nil {
		e.warnf("authguard: password hash upgrade generation failed for %s", user.UserID)
		return
	}
	if err := updater.UpdatePasswordHash(ctx, user.UserID, upgraded); err != nil {
		e.warnf("authguard: password hash upgrade update failed for %s", user.UserID)
	}
}
