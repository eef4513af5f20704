package directory

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user has the requested id.
	ErrUserNotFound = errors.New("directory: user not found")
	// ErrInvalidCredentials is returned when email and password do not match a user.
	ErrInvalidCredentials = errors.New("directory: invalid credentials")
	// ErrEmailExists is returned when creating a user with an email already taken.
	ErrEmailExists = errors.New("directory: email already exists")
	// ErrInvalidUser is returned when CreateUserInput fails validation.
	ErrInvalidUser = errors.New("directory: invalid user")
)

// Role is the single role an account holds.
type Role string

const (
	// RoleUser is the default role of a newly registered account.
	RoleUser Role = "user"
	// RoleAdmin grants access to administrative operations.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account record owned by the directory.
type User struct {
	ID           string
	Email        string
	Name         string
	Image        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserInput carries the fields accepted when creating a user.
// Password is plaintext; adapters hash it before storing.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Image    string
	Role     Role
}

// Directory is the user store the session core consults.
//
// FindUserByID returns ErrUserNotFound for deleted or never-existing ids.
// FindUserByEmailAndPassword returns ErrInvalidCredentials when the email is
// unknown or the password does not match. CreateUser returns ErrEmailExists
// when the email is taken.
type Directory interface {
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmailAndPassword(ctx context.Context, email, password string) (*User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*User, error)
	IsEmailExists(ctx context.Context, email string) (bool, error)
}

// NormalizeEmail trims and lower-cases an email for comparison and indexing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUserID returns a random UUIDv4 string.
func NewUserID() string {
	return uuid.NewString()
}

// Prepare validates in, normalizes its email and defaults its role.
func Prepare(in CreateUserInput) (CreateUserInput, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Image = strings.TrimSpace(in.Image)

	if in.Email == "" || len(in.Email) > 254 {
		return in, ErrInvalidUser
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return in, ErrInvalidUser
	}
	if in.Name == "" || len(in.Name) > 255 {
		return in, ErrInvalidUser
	}
	if in.Password == "" {
		return in, ErrInvalidUser
	}
	if in.Role == "" {
		in.Role = RoleUser
	}
	if !in.Role.Valid() {
		return in, ErrInvalidUser
	}
	return in, nil
}

// Clone returns a copy of u safe to hand to callers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
