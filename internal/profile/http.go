// Copyright (c) 2026 Push-It. All rights reserved.

package profile

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pushit/pushit/internal/auth"
	"github.com/pushit/pushit/internal/platform/middleware"
	requestutil "github.com/pushit/pushit/internal/platform/request"
	"github.com/pushit/pushit/internal/platform/respond"
	"github.com/pushit/pushit/internal/platform/validate"
)

// # Definitions & Constructors

// UserResolver resolves the full account record behind an authenticated
// session. Satisfied by the auth service.
type UserResolver interface {
	CurrentUser(context context.Context, username string) (*auth.User, error)
}

// Handler implements the member directory HTTP endpoints.
type Handler struct {
	profileService *Service
	userResolver   UserResolver
}

// NewHandler constructs a new [Handler] with its service dependencies.
func NewHandler(service *Service, resolver UserResolver) *Handler {
	return &Handler{
		profileService: service,
		userResolver:   resolver,
	}
}

// Routes returns a [chi.Router] configured with member directory routes.
//
// # Endpoints
//   - GET   /me        : Authenticated user's own record.
//   - PATCH /me/avatar : Update own avatar.
//   - GET   /profiles  : Full public directory.
//   - GET   /usernames : Every known username.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/usernames", handler.listUsernames)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.currentUser)
		r.Patch("/me/avatar", handler.updateAvatar)
		r.Get("/profiles", handler.listProfiles)
	})

	return router
}

// # Request Payloads

type updateAvatarRequest struct {
	AvatarURL string `json:"avatar_url"`
}

/*
CurrentUser returns the authenticated user's own account record.

GET /api/v1/users/me

Response:
  - 200: User: Redacted account record (no credential material)
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userResolver.CurrentUser(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateAvatar replaces the authenticated user's avatar URL.

PATCH /api/v1/users/me/avatar

Request:
  - Body: updateAvatarRequest (AvatarURL)

Response:
  - 200: Profile: Updated directory entry
  - 400: ErrInvalidJSON: Missing or malformed URL
  - 404: ErrNotFound: No directory entry for this member
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAvatarRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldAvatarURL, input.AvatarURL).URL(FieldAvatarURL, input.AvatarURL)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.profileService.UpdateAvatar(request.Context(), username, input.AvatarURL); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.profileService.FindByUsername(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
ListProfiles returns the full public member directory.

GET /api/v1/users/profiles

Response:
  - 200: []Profile: Directory entries ordered by username
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listProfiles(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.profileService.ListProfiles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profiles)
}

/*
ListUsernames returns every known username.

GET /api/v1/users/usernames

Response:
  - 200: []string: Usernames ordered alphabetically
*/
func (handler *Handler) listUsernames(writer http.ResponseWriter, request *http.Request) {
	usernames, err := handler.profileService.ListUsernames(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, usernames)
}
