// Copyright (c) 2026 Push-It. All rights reserved.

// PostgreSQL implementation of the directory storage contract.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/dberr"
)

// PostgresProfileRepository implements [Repository] using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL implementation of the directory store.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

const profileColumns = `username, fullname, avatar_url, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	entry := &Profile{}
	err := row.Scan(
		&entry.Username,
		&entry.FullName,
		&entry.AvatarURL,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

/*
CreateDefault seeds the directory entry for a new member.

Description: Registration is the only writer of new entries. The upsert keeps
the call idempotent if a registration retry races the original insert.

Returns:
  - error: Wrapped database errors
*/
func (repository *PostgresProfileRepository) CreateDefault(context context.Context, username, fullName string) error {
	const query = `
		INSERT INTO user_profiles (username, fullname, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING`

	if _, err := repository.pool.Exec(context, query, username, fullName, time.Now()); err != nil {
		return dberr.Wrap(err)
	}
	return nil
}

/*
FindByUsername retrieves one directory entry by exact username.

Returns:
  - *Profile: Hydrated directory entry
  - error: apperr.NotFound or wrapped database errors
*/
func (repository *PostgresProfileRepository) FindByUsername(context context.Context, username string) (*Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM user_profiles WHERE username = $1`

	entry, err := scanProfile(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, dberr.Wrap(err)
	}

	return entry, nil
}

/*
UpdateAvatar replaces the avatar URL for a member.

Returns:
  - error: apperr.NotFound when no entry matched, or wrapped database errors
*/
func (repository *PostgresProfileRepository) UpdateAvatar(context context.Context, username, avatarURL string) error {
	const query = `
		UPDATE user_profiles
		SET avatar_url = $2, updated_at = $3
		WHERE username = $1`

	tag, err := repository.pool.Exec(context, query, username, avatarURL, time.Now())
	if err != nil {
		return dberr.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Profile")
	}

	return nil
}

/*
ListProfiles returns the full member directory ordered by username.

Returns:
  - []Profile: Directory entries (empty slice when the directory is empty)
  - error: Wrapped database errors
*/
func (repository *PostgresProfileRepository) ListProfiles(context context.Context) ([]Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM user_profiles ORDER BY username ASC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		entry, err := scanProfile(rows)
		if err != nil {
			return nil, dberr.Wrap(err)
		}
		profiles = append(profiles, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err)
	}

	return profiles, nil
}

/*
ListUsernames returns every known username ordered alphabetically.

Returns:
  - []string: Usernames (empty slice when the directory is empty)
  - error: Wrapped database errors
*/
func (repository *PostgresProfileRepository) ListUsernames(context context.Context) ([]string, error) {
	const query = `SELECT username FROM user_profiles ORDER BY username ASC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, dberr.Wrap(err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err)
	}

	return usernames, nil
}
