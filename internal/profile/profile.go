// Copyright (c) 2026 Push-It. All rights reserved.

/*
Package profile manages the public member directory.

It owns the user_profiles projection: the subset of account data safe to show
to other members (username, full name, avatar). The authoritative credential
record lives in the auth domain; this package never sees a password hash.
*/
package profile

import "time"

// # Domain Entities

// Profile is the public-facing projection of a registered member.
type Profile struct {
	Username  string    `json:"username"`
	FullName  string    `json:"fullname"`
	AvatarURL *string   `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldUsername  = "username"
	FieldAvatarURL = "avatar_url"
)
