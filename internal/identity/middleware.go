// internal/identity/middleware.go
package identity

import (
	"context"
	"net/http"
	"strings"
)

type sessionKey struct{}

// WithSession returns a context carrying the given session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// FromContext returns the session placed in ctx by RequireSession.
func FromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(Session)
	return session, ok
}

// RequireSession rejects requests without a valid bearer token and injects
// the resolved session into the request context for downstream handlers.
func RequireSession(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			session, err := service.Verify(token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}
