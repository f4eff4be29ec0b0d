package middleware

import (
	"context"
	"net/http"
	"strings"

	"atelier/internal/auth"
	"atelier/internal/models"
)

type principalKey struct{}

// BearerAuth validates the Authorization header and stores the principal in
// the request context. The principal comes entirely from token claims; no
// database lookup happens here.
func BearerAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "missing bearer token", nil)
				return
			}
			p, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "invalid or expired token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subrouter on the role claim. 403 on mismatch; absence
// of a principal means BearerAuth did not run, which is a 401.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r)
			if p == nil {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "authentication required", nil)
				return
			}
			if p.Role != role {
				models.WriteProblem(w, http.StatusForbidden,
					"Forbidden", "insufficient role", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetPrincipal(r *http.Request) *auth.Principal {
	p, _ := r.Context().Value(principalKey{}).(*auth.Principal)
	return p
}
