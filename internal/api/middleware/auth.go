package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkarpov/giftcircle/internal/api/apierr"
	"github.com/mkarpov/giftcircle/internal/services/admin"
	"github.com/mkarpov/giftcircle/internal/services/session"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	adminContextKey   contextKey = "admin_session"
)

// Auth requires a valid participant session token.
func Auth(orch *session.Orchestrator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			sess, err := orch.GetSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth requires a valid operator session token.
func AdminAuth(adminService *admin.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			sess, err := adminService.GetSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), adminContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token from the Authorization header, or a
// "token" query parameter as a fallback for EventSource clients, which
// cannot set headers.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return r.URL.Query().Get("token")
}

// GetSession returns the participant session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// MustGetSession returns the participant session or panics
func MustGetSession(ctx context.Context) *session.Session {
	sess := GetSession(ctx)
	if sess == nil {
		panic("no session in context - auth middleware not applied?")
	}
	return sess
}

// GetAdminSession returns the operator session from the request context
func GetAdminSession(ctx context.Context) *admin.Session {
	sess, _ := ctx.Value(adminContextKey).(*admin.Session)
	return sess
}

// MustGetAdminSession returns the operator session or panics
func MustGetAdminSession(ctx context.Context) *admin.Session {
	sess := GetAdminSession(ctx)
	if sess == nil {
		panic("no admin session in context - auth middleware not applied?")
	}
	return sess
}
