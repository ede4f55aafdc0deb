// Copyright (c) 2026 Push-It. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pushit/pushit/internal/mailer"
	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/metrics"
	"github.com/pushit/pushit/internal/platform/sec"
	"github.com/pushit/pushit/pkg/uuidv7"
)

// # Contracts & Types

// TokenIssuer defines the contract for creating and checking signed tokens.
//
// It is the service's view of [sec.TokenService], kept as an interface so
// tests can substitute a stub.
type TokenIssuer interface {
	// IssueSession creates a signed, time-bound session token for the user.
	IssueSession(userID, username string, timeToLive time.Duration) (string, error)

	// IssuePasswordReset creates a short-lived signed token encoding the email.
	IssuePasswordReset(email string, timeToLive time.Duration) (string, error)

	// VerifyPasswordReset checks a reset token and returns its claims.
	VerifyPasswordReset(token string) (*sec.ResetClaims, error)
}

// Options carries the tunable knobs of the credential lifecycle.
type Options struct {
	// SessionTTL is how long issued session tokens stay valid.
	SessionTTL time.Duration

	// BcryptCost is the password hashing work factor.
	BcryptCost int
}

// Service implements the user credential and token lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository UserRepository
	resetConsumer  ResetTokenConsumer
	profileCreator ProfileCreator
	tokenIssuer    TokenIssuer
	mail           mailer.Mailer
	recorder       metrics.Recorder
	logger         *slog.Logger
	options        Options
}

// NewService constructs a new [Service] with its dependencies injected.
func NewService(
	userRepo UserRepository,
	resetConsumer ResetTokenConsumer,
	profileCreator ProfileCreator,
	tokenIssuer TokenIssuer,
	mail mailer.Mailer,
	recorder metrics.Recorder,
	logger *slog.Logger,
	options Options,
) *Service {
	return &Service{
		userRepository: userRepo,
		resetConsumer:  resetConsumer,
		profileCreator: profileCreator,
		tokenIssuer:    tokenIssuer,
		mail:           mail,
		recorder:       recorder,
		logger:         logger,
		options:        options,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Hashes the password with bcrypt (adjustable work factor), mints
the single outstanding verification token, persists the record, and dispatches
the verification email as a best-effort background side effect.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (unverified, token outstanding)
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Prevent storing plain-text passwords. The cost is configuration so
	// operators can trade CPU for resistance during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password, service.options.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Mint the opaque verification token: a stored, looked-up value rather
	// than a signed claim. It has no expiry; it dies when verification
	// clears it.
	verificationToken, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:                uuidv7.New(),
		Username:          input.Username,
		Email:             input.Email,
		PasswordHash:      hashedPassword,
		FullName:          input.FullName,
		IsVerified:        false,
		VerificationToken: &verificationToken,
	}

	// Persist the user. The unique constraints arbitrate concurrent
	// registrations: at most one insert for a given identity succeeds, the
	// rest surface Conflict with no partial record.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// Seed the public directory entry. Best-effort: a missing profile row
	// never blocks an otherwise successful registration.
	if err := service.profileCreator.CreateDefault(context, user.Username, user.FullName); err != nil {
		service.logger.Error("auth_profile_seed_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}

	service.recorder.RecordRegistration()

	// Fire-and-forget the verification email: errors are logged, not retried,
	// and no delivery confirmation is consumed.
	service.dispatchEmail(mailer.KindVerification, user.Email, verificationToken)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult represents a successfully established session.
type LoginResult struct {
	Token string
	User  *User
}

/*
Login validates user credentials and issues a session token.

Description: Looks the account up by username, compares the secret against
the stored hash (constant-time comparison inside bcrypt), and signs a
stateless session token with the configured expiry.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Session token plus a redacted user projection (never the hash)
  - err: NotFound (unknown user), Unauthorized (wrong secret), or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		service.recorder.RecordLogin(false)
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recorder.RecordLogin(false)
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := service.tokenIssuer.IssueSession(user.ID, user.Username, service.options.SessionTTL)
	if err != nil {
		service.recorder.RecordLogin(false)
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.recorder.RecordLogin(true)

	return &LoginResult{
		Token: token,
		User:  user,
	}, nil
}

/*
CurrentUser resolves the authenticated user's own record.

Returns:
  - *User: Redacted projection (hash excluded by the entity's JSON contract)
  - err: NotFound or storage failures
*/
func (service *Service) CurrentUser(context context.Context, username string) (*User, error) {
	return service.userRepository.FindByUsername(context, username)
}

// # Email Verification

/*
VerifyEmail confirms a user's email address using the stored opaque token.

Description: Resolves the token to its account and flips is_verified
false→true exactly once, clearing the token so it cannot be exchanged again.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - err: NotFound (unknown or already spent token) or storage errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	user, err := service.userRepository.FindByVerificationToken(context, token)
	if err != nil {
		return err
	}

	if err := service.userRepository.MarkVerified(context, user.ID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Fails with NotFound when no account matches the email, otherwise
signs a 1-hour reset token encoding the email and dispatches it by mail.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: The issued reset token
  - err: NotFound or signing failures
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", err
	}

	token, err := service.tokenIssuer.IssuePasswordReset(user.Email, ResetTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	service.dispatchEmail(mailer.KindPasswordReset, user.Email, token)

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the signed token, consumes its issuance id so the token
is single-use, re-hashes the new secret, and updates the account.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Forbidden (invalid, expired, or replayed token) or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	claims, err := service.tokenIssuer.VerifyPasswordReset(token)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return apperr.Forbidden("Reset token has expired")
		}
		return apperr.Forbidden("Reset token is invalid")
	}

	// Single-use enforcement: the first reset with this issuance wins; a
	// replay within the validity window observes an already-spent marker.
	spent, err := service.resetConsumer.Consume(context, claims.ID, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("auth_service_reset_consume_failed: %w", err)
	}
	if !spent {
		return apperr.Forbidden("Reset token has already been used")
	}

	user, err := service.userRepository.FindByEmail(context, claims.Email)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword, service.options.BcryptCost)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.Username, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_update_failed: %w", err)
	}

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before re-hashing and storing the
new one.

Parameters:
  - context: context.Context
  - username: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized (wrong current password) or storage failures
*/
func (service *Service) ChangePassword(context context.Context, username, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword, service.options.BcryptCost)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, username, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Side Effects

// dispatchEmail sends a notification email on a background goroutine.
//
// Best-effort by contract: failures are logged and counted, never retried,
// and never fail the request that triggered them.
func (service *Service) dispatchEmail(kind, toAddress, token string) {
	go func() {
		var err error
		switch kind {
		case mailer.KindVerification:
			err = service.mail.SendVerification(toAddress, token)
		case mailer.KindPasswordReset:
			err = service.mail.SendPasswordReset(toAddress, token)
		}

		if err != nil {
			service.recorder.RecordEmailDispatch(kind, false)
			service.logger.Error("auth_email_dispatch_failed",
				slog.String("kind", kind),
				slog.Any("error", err),
			)
			return
		}

		service.recorder.RecordEmailDispatch(kind, true)
	}()
}
