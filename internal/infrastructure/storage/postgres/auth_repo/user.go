// Package auth_repo provides the PostgreSQL implementation of the user store.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/domain/auth"
	"tourops/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ auth.UserRepository = (*UserRepo)(nil)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

const userCols = `id, email, password_hash, first_name, last_name,
	   is_active, is_admin, roles, last_login_at,
	   failed_login_attempts, locked_until,
	   created_at, updated_at, version`

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_admin, roles, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.IsActive, user.IsAdmin,
		user.Roles, user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("email already registered").
				WithDetail("email", user.Email).
				WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// Update updates user data with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		UPDATE users SET
			email = $2, password_hash = $3, first_name = $4, last_name = $5,
			is_active = $6, is_admin = $7, roles = $8, last_login_at = $9,
			failed_login_attempts = $10, locked_until = $11,
			updated_at = $12, version = version + 1
		WHERE id = $1 AND version = $13
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.IsActive, user.IsAdmin,
		user.Roles, user.LastLoginAt,
		user.FailedLoginAttempts, user.LockedUntil,
		user.UpdatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrency("user", user.ID.String())
	}

	user.Version++
	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getBy(ctx, "id = $1", userID)
}

// GetByEmail retrieves user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *UserRepo) getBy(ctx context.Context, cond string, arg any) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	query := fmt.Sprintf("SELECT %s FROM users WHERE %s", userCols, cond)

	var user auth.User
	err := q.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.IsActive, &user.IsAdmin,
		&user.Roles, &user.LastLoginAt,
		&user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("user", fmt.Sprintf("%v", arg))
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// Exists checks if a user with the email exists.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.txm.GetQuerier(ctx)

	var found int
	err := q.QueryRow(ctx, "SELECT 1 FROM users WHERE email = $1 LIMIT 1", email).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return true, nil
}
