// Copyright (c) 2026 Push-It. All rights reserved.

package profile

import "context"

// # Storage Contracts

// Repository defines the persistence contract for the member directory.
type Repository interface {
	// CreateDefault seeds a directory entry for a freshly registered member.
	CreateDefault(context context.Context, username, fullName string) error

	// FindByUsername retrieves one directory entry by exact username.
	FindByUsername(context context.Context, username string) (*Profile, error)

	// UpdateAvatar replaces the avatar URL. Fails NotFound when no entry exists.
	UpdateAvatar(context context.Context, username, avatarURL string) error

	// ListProfiles returns the full directory ordered by username.
	ListProfiles(context context.Context) ([]Profile, error)

	// ListUsernames returns every known username ordered alphabetically.
	ListUsernames(context context.Context) ([]string, error)
}
