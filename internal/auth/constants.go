// Copyright (c) 2026 Push-It. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// VerificationTokenLength is the byte length of the random verification token.
	// The token is a stored, looked-up value with no expiry of its own: it is
	// invalidated only by being cleared on successful verification.
	VerificationTokenLength = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)
