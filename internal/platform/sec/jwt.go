// Copyright (c) 2026 Push-It. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via narrow interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pushit/pushit/pkg/uuidv7"
)

// Sentinel errors for token verification. Callers must be able to tell a
// structurally broken token apart from a well-signed but stale one.
var (
	// ErrTokenInvalid marks a token whose signature or shape is wrong.
	ErrTokenInvalid = errors.New("sec: token invalid")

	// ErrTokenExpired marks a token whose signature is valid but whose
	// expiry has elapsed.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AuthClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// By embedding the UserID and Username directly inside the token, the
// authentication gate can reconstruct the active user context WITHOUT
// querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
}

// ResetClaims represents the payload embedded inside a password-reset token.
//
// The registered ID claim (jti) identifies this specific issuance so the
// token can be marked as consumed after one successful use.
type ResetClaims struct {
	jwt.RegisteredClaims

	Email string `json:"eml"`
}

// TokenService handles generation and verification of signed tokens using
// HMAC-SHA256 with a server-held secret.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// IssueSession creates a new signed session token for a user.
//
// The token is stateless: validity is signature plus expiry, with no
// server-side revocation list.
func (service *TokenService) IssueSession(userID, username string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// VerifySession checks the signature and validity of a session token.
//
// It returns [ErrTokenExpired] when the signature is good but the expiry
// has passed, and [ErrTokenInvalid] for every other failure.
func (service *TokenService) VerifySession(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, service.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// IssuePasswordReset creates a short-lived signed token encoding the
// account's email address.
func (service *TokenService) IssuePasswordReset(email string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuidv7.New(),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign reset token: %w", err)
	}

	return signedToken, nil
}

// VerifyPasswordReset checks a reset token and returns its claims.
func (service *TokenService) VerifyPasswordReset(tokenString string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, service.keyFunc)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// keyFunc validates the signing algorithm before handing out the secret.
func (service *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
	}
	return service.secret, nil
}

// classifyTokenError maps jwt library failures onto the package sentinels.
func classifyTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	}
	return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
}
