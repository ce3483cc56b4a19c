package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/natoursapp/natours-api/internal/domain/entity"
	"github.com/natoursapp/natours-api/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, role, photo_url, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Role, u.PhotoURL, u.PasswordHash)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, photo_url, '',
		       password_changed_at, password_reset_token_hash, password_reset_expires_at,
		       created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, photo_url, '',
		       password_changed_at, password_reset_token_hash, password_reset_expires_at,
		       created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) GetByIDWithPassword(ctx context.Context, id string) (*entity.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, photo_url, password_hash,
		       password_changed_at, password_reset_token_hash, password_reset_expires_at,
		       created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*entity.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, photo_url, password_hash,
		       password_changed_at, password_reset_token_hash, password_reset_expires_at,
		       created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) GetByResetTokenHash(ctx context.Context, hash string, now time.Time) (*entity.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, photo_url, '',
		       password_changed_at, password_reset_token_hash, password_reset_expires_at,
		       created_at, updated_at
		FROM users
		WHERE password_reset_token_hash = $1
		  AND password_reset_expires_at > $2
	`, hash, now))
}

// SetResetToken overwrites any pending reset token: at most one live
// token exists per user.
func (r *UserRepository) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_reset_token_hash = $1, password_reset_expires_at = $2, updated_at = now()
		WHERE id = $3
	`, hash, expiresAt, id)
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_reset_token_hash = NULL, password_reset_expires_at = NULL, updated_at = now()
		WHERE id = $1
	`, id)
}

// SetPassword writes the hash, the change timestamp, and clears the
// reset-token fields in one statement so a password mutation always
// revokes older sessions and invalidates any pending reset link.
func (r *UserRepository) SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_hash = $1,
		    password_changed_at = $2,
		    password_reset_token_hash = NULL,
		    password_reset_expires_at = NULL,
		    updated_at = now()
		WHERE id = $3
	`, hash, changedAt, id)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	return r.exec(ctx, `
		UPDATE users
		SET name = $1, photo_url = $2, updated_at = $3
		WHERE id = $4
	`, u.Name, u.PhotoURL, u.UpdatedAt, u.ID)
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var resetHash *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PhotoURL, &u.PasswordHash,
		&u.PasswordChangedAt, &resetHash, &u.PasswordResetExpiresAt,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if resetHash != nil {
		u.PasswordResetTokenHash = *resetHash
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
