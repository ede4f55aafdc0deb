// Copyright (c) 2026 Push-It. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Implementations run every operation through the shared bounded connection
// pool; the connection is returned on every exit path, including errors.
type UserRepository interface {

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or storage failures.
		    On conflict no partial record is persisted.
	*/
	Create(context context.Context, user *User) error

	/*
		FindByUsername returns the account with the given username (exact match).

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email (exact match).

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByVerificationToken returns the account holding the given
		outstanding verification token (exact match).

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByVerificationToken(context context.Context, token string) (*User, error)

	/*
		MarkVerified flips is_verified to true and clears the verification
		token. Idempotent in effect: calling it twice is safe.

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Returns:
		  - error: apperr.NotFound when no such user, or persistence failures
	*/
	UpdatePassword(context context.Context, username, newHash string) error
}

// # Volatile Data Access

// ResetTokenConsumer records which password-reset token issuances have been
// spent, making each token single-use within its validity window.
type ResetTokenConsumer interface {

	/*
		Consume marks the token issuance (its jti) as used.

		Parameters:
		  - context: context.Context
		  - tokenID: the jti claim of the reset token
		  - ttl: how long the marker must outlive the token's own expiry

		Returns:
		  - bool: true if this call spent the token, false if it was already used
		  - error: Storage failures
	*/
	Consume(context context.Context, tokenID string, ttl time.Duration) (bool, error)
}

// # Cross-Domain Collaborators

// ProfileCreator seeds the public directory entry for a new account.
// Implemented by the profile store; kept narrow so auth does not depend on
// the whole profile domain.
type ProfileCreator interface {
	CreateDefault(context context.Context, username, fullName string) error
}
