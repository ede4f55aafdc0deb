// Copyright (c) 2026 Push-It. All rights reserved.

package profile

import (
	"context"
	"log/slog"
)

// Service implements the member directory use cases.
//
// It also satisfies the registration-time profile seeding contract of the
// auth domain, so a new account always gains a directory entry.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// CreateDefault seeds a directory entry for a freshly registered member.
func (service *Service) CreateDefault(context context.Context, username, fullName string) error {
	return service.repository.CreateDefault(context, username, fullName)
}

// FindByUsername resolves one public directory entry.
func (service *Service) FindByUsername(context context.Context, username string) (*Profile, error) {
	return service.repository.FindByUsername(context, username)
}

// UpdateAvatar replaces a member's avatar URL.
//
// Returns NotFound when the member has no directory entry.
func (service *Service) UpdateAvatar(context context.Context, username, avatarURL string) error {
	return service.repository.UpdateAvatar(context, username, avatarURL)
}

// ListProfiles returns the full public directory.
func (service *Service) ListProfiles(context context.Context) ([]Profile, error) {
	return service.repository.ListProfiles(context)
}

// ListUsernames returns every known username.
func (service *Service) ListUsernames(context context.Context) ([]string, error) {
	return service.repository.ListUsernames(context)
}
