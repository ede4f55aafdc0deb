// Copyright (c) 2026 Push-It. All rights reserved.

// PostgreSQL implementation of the auth storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
// Unique violations become Conflict; connection starvation becomes the
// typed "service busy" error from [dberr].
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, fullname, is_verified, verification_token, created_at, updated_at`

// scanUser hydrates a single user row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.IsVerified,
		&user.VerificationToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users table.

Description: Single INSERT guarded by the table's unique constraints, so two
concurrent registrations with the same identity cannot both succeed and a
losing insert leaves no partial record behind.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username/email, or wrapped database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, username, email, password_hash, fullname, is_verified, verification_token, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.IsVerified,
		user.VerificationToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return dberr.Wrap(err)
	}

	return nil
}

/*
FindByUsername retrieves a user record by their unique username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or wrapped database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or wrapped database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err)
	}

	return user, nil
}

/*
FindByVerificationToken retrieves the user holding the given outstanding
verification token.

Description: The token is cleared on successful verification, so a spent or
unknown token resolves to NotFound.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or wrapped database errors
*/
func (repository *PostgresUserRepository) FindByVerificationToken(context context.Context, token string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Verification token")
		}
		return nil, dberr.Wrap(err)
	}

	return user, nil
}

/*
MarkVerified flips is_verified to true and clears the verification token.

Description: Idempotent in effect. Running the UPDATE against an already
verified user changes nothing and reports no error.

Returns:
  - error: Wrapped database errors
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	const query = `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, updated_at = $2
		WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID, time.Now()); err != nil {
		return dberr.Wrap(err)
	}
	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Returns:
  - error: apperr.NotFound when no row matched, or wrapped database errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, username, newHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE username = $1`

	tag, err := repository.pool.Exec(context, query, username, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
