package httpserver

import (
	"context"
	"net/http"
	"strings"

	"superchat/internal/apperror"
	"superchat/internal/security"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	UserID int64
	Email  string
}

// WithIdentity returns a new context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// CurrentIdentity extracts the caller identity from the request context.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityContextKey).(Identity)
	return id, ok
}

// AuthMiddleware validates the Bearer token and attaches the caller identity
// to the context. Missing, malformed, expired, and tampered tokens all get
// the same generic 401.
func AuthMiddleware(tokens *security.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				writeError(w, apperror.Unauthorized())
				return
			}
			tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])

			payload, err := tokens.Parse(tokenStr)
			if err != nil {
				writeError(w, apperror.Unauthorized())
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: payload.UserID, Email: payload.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
