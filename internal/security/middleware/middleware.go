package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yourorg/propmanager/internal/security"
	"github.com/yourorg/propmanager/internal/security/audit"
	"github.com/yourorg/propmanager/internal/security/auth"
	"github.com/yourorg/propmanager/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

const changePasswordPath = "/api/auth/change-password"

// isPublic reports whether a request needs no token: all reads are open,
// as are register and login, health probes, metrics and the activity feed.
// Change-password carries a bearer token like any other mutation.
func isPublic(r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	if r.URL.Path == changePasswordPath {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/auth/") ||
		r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics"
}

// JWTMiddleware requires a valid bearer token on mutating routes and denies
// write access to read-only roles.
func JWTMiddleware(tm *auth.TokenManager, authz *security.AuthorizationService, auditLog *audit.Logger, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing auth"}`, http.StatusUnauthorized)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				http.Error(w, `{"error":"invalid auth"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			// Any authenticated role may change its own password.
			if r.URL.Path != changePasswordPath && !authz.CanMutate(security.Role(claims.Role)) {
				auditLog.LogDenied(r.Context(), claims.UserID, claims.Role, "read-only role on mutating route")
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware throttles mutating requests per authenticated user.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			userID := ""
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				userID = claims.UserID
			}

			if !limiter.Allow(userID) {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records every mutating request with the acting user.
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				if !strings.HasPrefix(r.URL.Path, "/api/auth/") {
					userID, role := "", ""
					if claims := GetClaimsFromContext(r.Context()); claims != nil {
						userID, role = claims.UserID, claims.Role
					}
					auditLog.LogMutation(r.Context(), userID, role, r.Method, entiteFromPath(r.URL.Path), r.PathValue("id"))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// entiteFromPath extracts the entity segment from an /api/... path.
func entiteFromPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/api/"), "/")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "api"
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}
