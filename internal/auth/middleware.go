package auth

import (
	"context"
	"net/http"
	"slices"

	"github.com/brinda-08/Quiz/internal/models"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
)

type contextKey string

// UserContextKey is the key for storing token claims in context
const UserContextKey contextKey = "user"

// TokenValidator is implemented by TokenManager.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.TokenClaims, error)
}

// Authenticate rejects requests without a bearer token (401) or with a token
// that fails validation (403), and stores the decoded claims in the context.
func Authenticate(tv TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := pkghttp.BearerToken(r)
			if !ok {
				pkghttp.WriteUnauthorized(w, "Access token required")
				return
			}

			claims, err := tv.ValidateToken(tokenString)
			if err != nil {
				pkghttp.WriteForbidden(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole allows the request through only when the authenticated role is
// one of roles. It must run after Authenticate.
func RequireRole(roles ...models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r)
			if claims == nil {
				pkghttp.WriteUnauthorized(w, "Access token required")
				return
			}

			if !slices.Contains(roles, claims.Role) {
				pkghttp.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *models.TokenClaims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// GetUserFromContext extracts token claims from the request context
func GetUserFromContext(r *http.Request) *models.TokenClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
