package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/foliohq/folio-api/internal/models"
	pkghttp "github.com/foliohq/folio-api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the authenticated identity attached to the request context by
// Authenticate. Admin is the freshly loaded record, not a claim snapshot.
type Principal struct {
	Claims *Claims
	Admin  *models.Admin
}

// AdminLoader fetches the admin record for the token subject.
type AdminLoader interface {
	GetByID(ctx context.Context, id string) (*models.Admin, error)
}

// Authenticate validates the bearer access token, loads the admin it belongs
// to and injects a Principal into the request context. Missing or inactive
// admins fail with 401 like any other authentication failure.
func Authenticate(tm *TokenManager, admins AdminLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ExtractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				pkghttp.WriteUnauthorized(w, "Authorization token required")
				return
			}

			claims, err := tm.VerifyAccessToken(token)
			if err != nil {
				if errors.Is(err, models.ErrTokenExpired) {
					pkghttp.WriteUnauthorized(w, "Token expired")
					return
				}
				pkghttp.WriteUnauthorized(w, "Invalid token")
				return
			}

			admin, err := admins.GetByID(r.Context(), claims.AdminID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "Invalid token")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			if !admin.IsActive {
				pkghttp.WriteUnauthorized(w, "Invalid token")
				return
			}

			principal := &Principal{Claims: claims, Admin: admin}
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin enforces role-based access. Must run after Authenticate. The
// allowed set defaults to both stored admin roles when none are given.
func RequireAdmin(allowedRoles ...string) func(next http.Handler) http.Handler {
	if len(allowedRoles) == 0 {
		allowedRoles = []string{models.RoleAdmin, models.RoleSuperAdmin}
	}

	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				pkghttp.WriteUnauthorized(w, "Authorization token required")
				return
			}

			if _, ok := allowed[principal.Admin.Role]; !ok {
				pkghttp.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth performs the same extraction as Authenticate but never fails
// the request; on any problem the request proceeds anonymously.
func OptionalAuth(tm *TokenManager, admins AdminLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ExtractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tm.VerifyAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := admins.GetByID(r.Context(), claims.AdminID)
			if err != nil || !admin.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			principal := &Principal{Claims: claims, Admin: admin}
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithPrincipal attaches a principal outside the middleware chain,
// e.g. in handler tests.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal, or nil when the
// request is anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok {
		return nil
	}
	return principal
}
