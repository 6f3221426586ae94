package service

import (
	"testing"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/repository"
	"github.com/yourorg/propmanager/internal/security/auth"
)

func newAuthService() (*AuthService, domain.UserRepository) {
	repo := repository.NewMemoryUserRepository()
	tm := auth.NewTokenManager("secret", "propmanager")
	return NewAuthService(repo, tm, 15*time.Minute, nil), repo
}

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newAuthService()

	// Register with default role
	r, err := s.Register("alice@example.com", "alice", "Password123", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if r.UserID == "" || r.Token == "" {
		t.Fatalf("expected user id and token")
	}
	if r.Role != "gestionnaire" {
		t.Fatalf("expected default role gestionnaire, got %s", r.Role)
	}

	// Duplicate email
	if _, err := s.Register("alice@example.com", "alice2", "Password123", ""); err == nil {
		t.Fatalf("expected duplicate email error")
	}

	// Login ok
	lr, err := s.Login("alice@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if lr.Token == "" {
		t.Fatalf("expected token on login")
	}
	if lr.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expires_in: %d", lr.ExpiresIn)
	}

	// Login wrong password
	if _, err := s.Login("alice@example.com", "Wrong"); err == nil {
		t.Fatalf("expected invalid credentials error")
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	s, _ := newAuthService()

	if _, err := s.Register("eve@example.com", "eve", "Password123", "superadmin"); err == nil {
		t.Fatalf("expected unknown role to be rejected")
	}

	r, err := s.Register("carol@example.com", "carol", "Password123", "lecteur")
	if err != nil {
		t.Fatalf("register with role lecteur failed: %v", err)
	}
	if r.Role != "lecteur" {
		t.Fatalf("expected role lecteur, got %s", r.Role)
	}
}

func TestVerifyToken(t *testing.T) {
	s, _ := newAuthService()

	r, err := s.Register("dave@example.com", "dave", "Password123", "proprietaire")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	claims, err := s.VerifyToken(r.Token)
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if claims.UserID != r.UserID || claims.Role != "proprietaire" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := s.VerifyToken("not.a.token"); err == nil {
		t.Fatalf("expected invalid token error")
	}
}

func TestIssuedTokenPassesMiddlewareValidation(t *testing.T) {
	// With no JWT_SECRET configured, the service and the middleware both
	// fall back to the same key, so a freshly issued token must validate on
	// an independently constructed manager.
	repo := repository.NewMemoryUserRepository()
	s := NewAuthService(repo, auth.NewTokenManager("", "propmanager"), 15*time.Minute, nil)

	r, err := s.Register("frank@example.com", "frank", "Password123", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	middlewareSide := auth.NewTokenManager("", "propmanager")
	claims, err := middlewareSide.ValidateToken(r.Token)
	if err != nil {
		t.Fatalf("token rejected by the middleware manager: %v", err)
	}
	if claims.UserID != r.UserID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestChangePassword(t *testing.T) {
	s, _ := newAuthService()
	reg, err := s.Register("bob@example.com", "bob", "OldPass123", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong old password
	if err := s.ChangePassword(reg.UserID, "bad", "NewPass123"); err == nil {
		t.Fatalf("expected wrong old password error")
	}
	// Good change
	if err := s.ChangePassword(reg.UserID, "OldPass123", "NewPass123"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	// Old password should no longer work
	if _, err := s.Login("bob@example.com", "OldPass123"); err == nil {
		t.Fatalf("expected old password to fail after change")
	}
	// New password works
	if _, err := s.Login("bob@example.com", "NewPass123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
