// Copyright (c) 2026 Push-It. All rights reserved.

/*
Package auth implements the user identity and credential lifecycle.

It defines the core domain entity (User) and the logic for registration,
authentication, email verification, and password recovery.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to user
identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Push-It platform.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// PasswordHash is explicitly omitted from JSON: the secret never leaves
	// the store boundary in any form.
	PasswordHash string `json:"-"`
	FullName     string `json:"fullname"`
	IsVerified   bool   `json:"is_verified"`
	// VerificationToken is the single outstanding opaque token, nil once the
	// account is verified. Never serialized.
	VerificationToken *string   `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFullName        = "fullname"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "token"
	FieldMessage         = "message"
)
