package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/0ui-labs/authguard"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the validation result stored by [Guard].
func AuthResultFromContext(ctx context.Context) (*authguard.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*authguard.AuthResult)
	return res, ok
}

// Guard returns middleware that requires a valid bearer token. Every
// rejection is a generic 401: revoked, expired, and malformed tokens are
// indistinguishable to the client.
func Guard(engine *authguard.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Validate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
