package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"lume/internal/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// RequireAuth пускает дальше только с живой сессией и кладёт Identity в контекст.
func RequireAuth(s *Sessions) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.Current(r)
			if !ok {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required", nil)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin — поверх RequireAuth: роль admin обязательна.
func RequireAdmin(s *Sessions) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.Current(r)
			if !ok {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required", nil)
				return
			}
			if !id.IsAdmin() {
				models.WriteProblem(w, http.StatusForbidden, "Forbidden", "admin role required", nil)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext достаёт Identity, положенную middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
