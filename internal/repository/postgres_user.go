package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/propmanager/internal/domain"
)

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *sql.DB, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, email, username, password_hash, role, created_at, updated_at, is_active`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a new user
func (r *PostgresUserRepository) Create(user *domain.User) error {
	user.ID = newID("user")
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO users (id, email, username, password_hash, role, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Email, user.Username, user.PasswordHash, user.Role,
		user.CreatedAt, user.UpdatedAt, user.IsActive)

	if err != nil {
		r.logger.Error("failed to create user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(id string) (*domain.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user", id)
		}
		r.logger.Error("failed to get user by id",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves an active user by email
func (r *PostgresUserRepository) GetByEmail(email string) (*domain.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = $1 AND is_active = true", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves an active user by username
func (r *PostgresUserRepository) GetByUsername(username string) (*domain.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = $1 AND is_active = true", username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("user", username)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// Update updates an existing user
func (r *PostgresUserRepository) Update(user *domain.User) error {
	user.UpdatedAt = time.Now()

	res, err := r.db.Exec(`
		UPDATE users
		SET email = $1, username = $2, password_hash = $3, role = $4, is_active = $5, updated_at = $6
		WHERE id = $7
	`, user.Email, user.Username, user.PasswordHash, user.Role, user.IsActive,
		user.UpdatedAt, user.ID)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(res, "user", user.ID)
}

// Delete soft-deletes a user (sets is_active to false)
func (r *PostgresUserRepository) Delete(id string) error {
	res, err := r.db.Exec("UPDATE users SET is_active = false WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(res, "user", id)
}

// List lists all active users
func (r *PostgresUserRepository) List() ([]*domain.User, error) {
	rows, err := r.db.Query("SELECT " + userColumns + " FROM users WHERE is_active = true ORDER BY created_at DESC")
	if err != nil {
		r.logger.Error("failed to list users",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user row",
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
