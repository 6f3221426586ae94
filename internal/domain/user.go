package domain

import "time"

// User represents an account able to sign in to the management API.
type User struct {
	ID           string // opaque identifier assigned by the store
	Email        string // unique email address
	Username     string // unique username
	PasswordHash string // bcrypt hashed password (never returned in API)
	Role         string // proprietaire, gestionnaire, lecteur
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsActive     bool
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(user *User) error
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByUsername(username string) (*User, error)
	Update(user *User) error
	Delete(id string) error
	List() ([]*User, error)
}
