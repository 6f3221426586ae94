package service

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/propmanager/internal/domain"
	"github.com/yourorg/propmanager/internal/security/auth"
)

// UserRoles are the accounts the API distinguishes: proprietaire can do
// everything, gestionnaire manages entities, lecteur reads only.
var UserRoles = []string{"proprietaire", "gestionnaire", "lecteur"}

// AuthService handles authentication operations. Tokens are signed and
// validated through the same TokenManager the JWT middleware uses, so both
// sides always share one secret.
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo domain.UserRepository,
	tokens *auth.TokenManager,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if tokens == nil {
		tokens = auth.NewTokenManager("", "")
	}
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}

	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// RegisterResult represents registration response
type RegisterResult struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

// LoginResult represents login response
type LoginResult struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
	TokenType string `json:"token_type"`
}

// Register creates a new user account
func (s *AuthService) Register(email, username, password, role string) (*RegisterResult, error) {
	if email == "" || password == "" || username == "" {
		return nil, errors.New("email, username, and password are required")
	}

	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if role == "" {
		role = "gestionnaire"
	}
	if !slices.Contains(UserRoles, role) {
		return nil, errors.New("unknown role")
	}

	// Check if user already exists
	existing, err := s.userRepo.GetByEmail(email)
	if err == nil && existing != nil {
		return nil, errors.New("email already registered")
	}

	existingUsername, err := s.userRepo.GetByUsername(username)
	if err == nil && existingUsername != nil {
		return nil, errors.New("username already taken")
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	}, nil
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		s.logger.Info("login attempt with non-existent email", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		return nil, errors.New("invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
		TokenType: "Bearer",
	}, nil
}

// VerifyToken verifies and parses a JWT token
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// generateToken generates a new JWT token for a user
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	tokenString, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return "", errors.New("failed to generate token")
	}
	return tokenString, nil
}

// ChangePassword changes a user's password
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	if newPassword == "" || len(newPassword) < 8 {
		return errors.New("new password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.String("error", err.Error()))
		return errors.New("failed to change password")
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("failed to update user password", slog.String("error", err.Error()))
		return errors.New("failed to change password")
	}

	s.logger.Info("user changed password", slog.String("user_id", userID))
	return nil
}
