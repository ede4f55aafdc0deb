// Copyright (c) 2026 Push-It. All rights reserved.

package auth_test

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushit/pushit/internal/auth"
	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/metrics"
	"github.com/pushit/pushit/internal/platform/sec"
)

// # Test Fakes

// memoryUserRepo is an in-memory UserRepository enforcing the same
// uniqueness rules as the users table.
type memoryUserRepo struct {
	mu    sync.Mutex
	users []*auth.User
}

func (repo *memoryUserRepo) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("Username or email is already registered")
		}
	}

	clone := *user
	repo.users = append(repo.users, &clone)
	return nil
}

func (repo *memoryUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepo) FindByVerificationToken(_ context.Context, token string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Verification token")
}

func (repo *memoryUserRepo) MarkVerified(_ context.Context, userID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.ID == userID {
			user.IsVerified = true
			user.VerificationToken = nil
			return nil
		}
	}
	return nil
}

func (repo *memoryUserRepo) UpdatePassword(_ context.Context, username, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.Username == username {
			user.PasswordHash = newHash
			return nil
		}
	}
	return apperr.NotFound("User")
}

// memoryResetConsumer mirrors the Redis SetNX semantics: the first Consume
// of a given id wins, repeats lose.
type memoryResetConsumer struct {
	mu   sync.Mutex
	used map[string]bool
}

func newMemoryResetConsumer() *memoryResetConsumer {
	return &memoryResetConsumer{used: map[string]bool{}}
}

func (consumer *memoryResetConsumer) Consume(_ context.Context, tokenID string, _ time.Duration) (bool, error) {
	consumer.mu.Lock()
	defer consumer.mu.Unlock()

	if consumer.used[tokenID] {
		return false, nil
	}
	consumer.used[tokenID] = true
	return true, nil
}

// recordingProfileCreator captures directory seeding calls.
type recordingProfileCreator struct {
	mu       sync.Mutex
	seeded   []string
	failNext bool
}

func (creator *recordingProfileCreator) CreateDefault(_ context.Context, username, _ string) error {
	creator.mu.Lock()
	defer creator.mu.Unlock()

	if creator.failNext {
		creator.failNext = false
		return apperr.Internal(nil)
	}
	creator.seeded = append(creator.seeded, username)
	return nil
}

// channelMailer reports every dispatched mail on a channel so tests can
// observe the asynchronous side effect.
type channelMailer struct {
	sent chan sentMail
}

type sentMail struct {
	kind  string
	to    string
	token string
}

func newChannelMailer() *channelMailer {
	return &channelMailer{sent: make(chan sentMail, 8)}
}

func (mailer *channelMailer) SendVerification(toAddress, token string) error {
	mailer.sent <- sentMail{kind: "verification", to: toAddress, token: token}
	return nil
}

func (mailer *channelMailer) SendPasswordReset(toAddress, token string) error {
	mailer.sent <- sentMail{kind: "password_reset", to: toAddress, token: token}
	return nil
}

func (mailer *channelMailer) waitForMail(t *testing.T) sentMail {
	t.Helper()
	select {
	case mail := <-mailer.sent:
		return mail
	case <-time.After(2 * time.Second):
		t.Fatal("expected an email dispatch, got none")
		return sentMail{}
	}
}

// # Harness

type serviceHarness struct {
	service  *auth.Service
	repo     *memoryUserRepo
	consumer *memoryResetConsumer
	profiles *recordingProfileCreator
	mailer   *channelMailer
	tokens   *sec.TokenService
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "push-it.app")
	require.NoError(t, err)

	repo := &memoryUserRepo{}
	consumer := newMemoryResetConsumer()
	profiles := &recordingProfileCreator{}
	mail := newChannelMailer()

	service := auth.NewService(
		repo,
		consumer,
		profiles,
		tokens,
		mail,
		metrics.Noop{},
		slog.Default(),
		auth.Options{
			SessionTTL: time.Hour,
			BcryptCost: 4, // keep bcrypt cheap in tests
		},
	)

	return &serviceHarness{
		service:  service,
		repo:     repo,
		consumer: consumer,
		profiles: profiles,
		mailer:   mail,
		tokens:   tokens,
	}
}

func registerPat(t *testing.T, h *serviceHarness) *auth.User {
	t.Helper()
	user, err := h.service.Register(context.Background(), auth.RegisterInput{
		Username: "pat",
		Email:    "pat@push-it.app",
		Password: "hunter2hunter2",
		FullName: "Pat Example",
	})
	require.NoError(t, err)
	return user
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	return ae.HTTPStatus
}

// # Registration

/*
TestRegister_NewUser verifies the fresh account shape: unverified, with an
outstanding verification token, and never exposing the plain password.
*/
func TestRegister_NewUser(t *testing.T) {
	h := newServiceHarness(t)

	user := registerPat(t, h)

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.VerificationToken)
	assert.NotEmpty(t, *user.VerificationToken)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("hunter2hunter2", user.PasswordHash))

	// Directory entry seeded.
	assert.Contains(t, h.profiles.seeded, "pat")

	// Verification email carries the stored token.
	mail := h.mailer.waitForMail(t)
	assert.Equal(t, "verification", mail.kind)
	assert.Equal(t, "pat@push-it.app", mail.to)
	assert.Equal(t, *user.VerificationToken, mail.token)
}

/*
TestRegister_Duplicate verifies uniqueness yields Conflict, not a second row.
*/
func TestRegister_Duplicate(t *testing.T) {
	h := newServiceHarness(t)
	registerPat(t, h)

	tests := []struct {
		name  string
		input auth.RegisterInput
	}{
		{"same_username", auth.RegisterInput{Username: "pat", Email: "other@push-it.app", Password: "hunter2hunter2"}},
		{"same_email", auth.RegisterInput{Username: "other", Email: "pat@push-it.app", Password: "hunter2hunter2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, http.StatusConflict, statusOf(t, err))
		})
	}
}

/*
TestRegister_ProfileSeedFailureDoesNotBlock verifies registration survives a
failed directory insert.
*/
func TestRegister_ProfileSeedFailureDoesNotBlock(t *testing.T) {
	h := newServiceHarness(t)
	h.profiles.failNext = true

	user, err := h.service.Register(context.Background(), auth.RegisterInput{
		Username: "pat",
		Email:    "pat@push-it.app",
		Password: "hunter2hunter2",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

// # Login & Sessions

/*
TestLogin_Roundtrip verifies a registered user can log in and the issued
token verifies back to their identity.
*/
func TestLogin_Roundtrip(t *testing.T) {
	h := newServiceHarness(t)
	user := registerPat(t, h)

	result, err := h.service.Login(context.Background(), auth.LoginInput{
		Username: "pat",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	claims, err := h.tokens.VerifySession(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "pat", claims.Username)
}

/*
TestLogin_WrongPassword verifies an invalid secret yields 401.
*/
func TestLogin_WrongPassword(t *testing.T) {
	h := newServiceHarness(t)
	registerPat(t, h)

	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Username: "pat",
		Password: "not-the-password",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

/*
TestLogin_UnknownUser verifies an unknown username yields 404.
*/
func TestLogin_UnknownUser(t *testing.T) {
	h := newServiceHarness(t)

	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Username: "ghost",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

// # Email Verification

/*
TestVerifyEmail_Flow verifies the token flips the flag, clears the token,
and cannot be exchanged twice.
*/
func TestVerifyEmail_Flow(t *testing.T) {
	h := newServiceHarness(t)
	user := registerPat(t, h)
	token := *user.VerificationToken

	require.NoError(t, h.service.VerifyEmail(context.Background(), token))

	verified, err := h.service.CurrentUser(context.Background(), "pat")
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Nil(t, verified.VerificationToken)

	// Spent token no longer resolves.
	err = h.service.VerifyEmail(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

/*
TestVerifyEmail_UnknownToken verifies garbage tokens fail NotFound.
*/
func TestVerifyEmail_UnknownToken(t *testing.T) {
	h := newServiceHarness(t)

	err := h.service.VerifyEmail(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

// # Password Recovery

/*
TestPasswordReset_Flow covers the full forgot-password happy path and the
single-use property of the reset token.
*/
func TestPasswordReset_Flow(t *testing.T) {
	h := newServiceHarness(t)
	registerPat(t, h)
	h.mailer.waitForMail(t) // drain the verification mail

	token, err := h.service.RequestPasswordReset(context.Background(), "pat@push-it.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	mail := h.mailer.waitForMail(t)
	assert.Equal(t, "password_reset", mail.kind)
	assert.Equal(t, token, mail.token)

	require.NoError(t, h.service.ResetPassword(context.Background(), token, "brand-new-password"))

	// Old password gone, new password works.
	_, err = h.service.Login(context.Background(), auth.LoginInput{Username: "pat", Password: "hunter2hunter2"})
	require.Error(t, err)
	_, err = h.service.Login(context.Background(), auth.LoginInput{Username: "pat", Password: "brand-new-password"})
	require.NoError(t, err)

	// Replaying the consumed token fails 403.
	err = h.service.ResetPassword(context.Background(), token, "yet-another-password")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

/*
TestPasswordReset_UnknownEmail verifies the 404 contract of forgot-password.
*/
func TestPasswordReset_UnknownEmail(t *testing.T) {
	h := newServiceHarness(t)

	_, err := h.service.RequestPasswordReset(context.Background(), "ghost@push-it.app")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

/*
TestPasswordReset_BadTokens verifies forged and expired tokens fail 403.
*/
func TestPasswordReset_BadTokens(t *testing.T) {
	h := newServiceHarness(t)
	registerPat(t, h)

	t.Run("garbage", func(t *testing.T) {
		err := h.service.ResetPassword(context.Background(), "not-a-token", "new-password-123")
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := h.tokens.IssuePasswordReset("pat@push-it.app", -time.Minute)
		require.NoError(t, err)

		err = h.service.ResetPassword(context.Background(), expired, "new-password-123")
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})
}

// # Change Password

/*
TestChangePassword verifies the current-password gate and the rehash.
*/
func TestChangePassword(t *testing.T) {
	h := newServiceHarness(t)
	registerPat(t, h)

	t.Run("wrong_current", func(t *testing.T) {
		err := h.service.ChangePassword(context.Background(), "pat", "wrong", "next-password-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, h.service.ChangePassword(context.Background(), "pat", "hunter2hunter2", "next-password-1"))

		_, err := h.service.Login(context.Background(), auth.LoginInput{Username: "pat", Password: "next-password-1"})
		require.NoError(t, err)
	})
}

// # Full Lifecycle

/*
TestLifecycle_RegisterVerifyLogin walks the complete onboarding journey.
*/
func TestLifecycle_RegisterVerifyLogin(t *testing.T) {
	h := newServiceHarness(t)

	user := registerPat(t, h)
	mail := h.mailer.waitForMail(t)

	require.NoError(t, h.service.VerifyEmail(context.Background(), mail.token))

	result, err := h.service.Login(context.Background(), auth.LoginInput{
		Username: "pat",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	current, err := h.service.CurrentUser(context.Background(), "pat")
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
	assert.True(t, current.IsVerified)

	claims, err := h.tokens.VerifySession(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}
