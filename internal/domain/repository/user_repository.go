package repository

import (
	"context"
	"errors"
	"time"

	"github.com/natoursapp/natours-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by Create when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateName is returned by tour Create when the name is taken.
	ErrDuplicateName = errors.New("name already in use")
)

// UserRepository defines user persistence. Reads exclude the password
// hash unless the *WithPassword variant is used.
//
// SetPassword is the single entry point for password mutation: it
// writes the new hash, stamps password_changed_at, and clears any
// pending reset token in one statement so the invariants cannot be
// bypassed piecemeal.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByIDWithPassword(ctx context.Context, id string) (*entity.User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*entity.User, error)

	// GetByResetTokenHash finds the user holding the given reset-token
	// hash whose expiry is strictly after now.
	GetByResetTokenHash(ctx context.Context, hash string, now time.Time) (*entity.User, error)
	SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error

	SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error
	UpdateProfile(ctx context.Context, u *entity.User) error
}
