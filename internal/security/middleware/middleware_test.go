package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/security"
	"github.com/yourorg/propmanager/internal/security/audit"
	"github.com/yourorg/propmanager/internal/security/auth"
)

func newJWTChain(tm *auth.TokenManager, captured **auth.Claims) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	authz := security.NewAuthorizationService(log)
	auditLog := audit.NewLogger(log)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return JWTMiddleware(tm, authz, auditLog, log)(inner)
}

func bearerFor(t *testing.T, tm *auth.TokenManager, userID, role string) string {
	t.Helper()
	token, err := tm.GenerateToken(userID, userID+"@example.com", role, 15*time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func TestJWTMiddlewareChangePasswordRequiresToken(t *testing.T) {
	tm := auth.NewTokenManager("secret", "propmanager")
	var captured *auth.Claims
	chain := newJWTChain(tm, &captured)

	// Without a token the request never reaches the handler.
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/change-password", strings.NewReader("{}")))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// With a valid token the claims travel in the context.
	req := httptest.NewRequest("POST", "/api/auth/change-password", strings.NewReader("{}"))
	req.Header.Set("Authorization", bearerFor(t, tm, "user-1", "gestionnaire"))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if captured == nil || captured.UserID != "user-1" {
		t.Fatalf("expected claims in context, got %+v", captured)
	}
}

func TestJWTMiddlewareLecteurCanChangeOwnPassword(t *testing.T) {
	tm := auth.NewTokenManager("secret", "propmanager")
	var captured *auth.Claims
	chain := newJWTChain(tm, &captured)

	req := httptest.NewRequest("POST", "/api/auth/change-password", strings.NewReader("{}"))
	req.Header.Set("Authorization", bearerFor(t, tm, "user-2", "lecteur"))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for lecteur on change-password, got %d", rec.Code)
	}

	// The same role stays forbidden on entity mutations.
	req = httptest.NewRequest("POST", "/api/biens", strings.NewReader("{}"))
	req.Header.Set("Authorization", bearerFor(t, tm, "user-2", "lecteur"))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for lecteur on /api/biens, got %d", rec.Code)
	}
}

func TestJWTMiddlewarePublicRoutes(t *testing.T) {
	tm := auth.NewTokenManager("secret", "propmanager")
	var captured *auth.Claims
	chain := newJWTChain(tm, &captured)

	for _, path := range []string{"/api/auth/register", "/api/auth/login"} {
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader("{}")))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected %s to stay public, got %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest("GET", "/api/biens", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected reads to stay public, got %d", rec.Code)
	}
}
