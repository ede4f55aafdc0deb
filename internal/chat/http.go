// Copyright (c) 2026 Push-It. All rights reserved.

package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pushit/pushit/internal/platform/middleware"
	requestutil "github.com/pushit/pushit/internal/platform/request"
	"github.com/pushit/pushit/internal/platform/respond"
	"github.com/pushit/pushit/internal/platform/validate"
	"github.com/pushit/pushit/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the conversation and messaging HTTP endpoints.
type Handler struct {
	chatService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{chatService: service}
}

// Routes returns a [chi.Router] configured with chat routes.
//
// Every endpoint requires an authenticated session.
//
// # Endpoints
//   - GET    /                    : Conversations of the current user.
//   - POST   /                    : Open a new conversation.
//   - DELETE /{chatID}            : Remove a conversation and its history.
//   - GET    /{chatID}/messages   : Paginated history.
//   - POST   /{chatID}/messages   : Append a message.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listChats)
	router.Post("/", handler.createChat)
	router.Delete("/{chatID}", handler.deleteChat)
	router.Get("/{chatID}/messages", handler.listMessages)
	router.Post("/{chatID}/messages", handler.postMessage)

	return router
}

// # Request Payloads

type createChatRequest struct {
	ChatName  string   `json:"chat_name"`
	IsGroup   bool     `json:"is_group"`
	UserNames []string `json:"user_names"`
}

type postMessageRequest struct {
	MessageText string `json:"message_text"`
}

/*
ListChats returns the conversations of the authenticated user.

GET /api/v1/chats

Response:
  - 200: []Chat: Conversations newest first
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listChats(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chats, err := handler.chatService.ListChats(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chats)
}

/*
CreateChat opens a new conversation.

POST /api/v1/chats

Description: The authenticated user is always a member, whether listed or
not. All listed members must be registered users.

Request:
  - Body: createChatRequest (ChatName, IsGroup, UserNames)

Response:
  - 201: Chat: Created conversation
  - 400: ErrInvalidJSON: Missing name, empty membership, or unknown member
*/
func (handler *Handler) createChat(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createChatRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldChatName, input.ChatName).
		MaxLen(FieldChatName, input.ChatName, 120).
		Custom(FieldUserNames, len(input.UserNames) == 0, "must list at least one member")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	members := input.UserNames
	if !containsMember(members, username) {
		members = append(members, username)
	}

	conversation, err := handler.chatService.CreateChat(request.Context(), CreateChatInput{
		ChatName:  input.ChatName,
		IsGroup:   input.IsGroup,
		UserNames: members,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, conversation)
}

/*
DeleteChat removes a conversation and its message history.

DELETE /api/v1/chats/{chatID}

Response:
  - 204: No Content: Conversation removed
  - 404: ErrNotFound: Unknown chat
*/
func (handler *Handler) deleteChat(writer http.ResponseWriter, request *http.Request) {
	chatID := requestutil.Param(request, "chatID")

	v := &validate.Validator{}
	v.Required(FieldChatID, chatID).UUID(FieldChatID, chatID)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.chatService.DeleteChat(request.Context(), chatID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ListMessages returns a page of a conversation's history.

GET /api/v1/chats/{chatID}/messages?page=&limit=

Response:
  - 200: []Message + pagination metadata
  - 404: ErrNotFound: Unknown chat
*/
func (handler *Handler) listMessages(writer http.ResponseWriter, request *http.Request) {
	chatID := requestutil.Param(request, "chatID")

	v := &validate.Validator{}
	v.Required(FieldChatID, chatID).UUID(FieldChatID, chatID)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	messages, meta, err := handler.chatService.ListMessages(request.Context(), chatID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, messages, meta)
}

/*
PostMessage appends a message to a conversation.

POST /api/v1/chats/{chatID}/messages

Request:
  - Body: postMessageRequest (MessageText)

Response:
  - 201: Message: Persisted entry with denormalized author fullname
  - 400: ErrInvalidJSON: Empty message
  - 404: ErrNotFound: Unknown chat
*/
func (handler *Handler) postMessage(writer http.ResponseWriter, request *http.Request) {
	username, err := requestutil.RequiredUsername(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chatID := requestutil.Param(request, "chatID")

	var input postMessageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldChatID, chatID).
		UUID(FieldChatID, chatID).
		Required(FieldMessageText, input.MessageText).
		MaxLen(FieldMessageText, input.MessageText, 4000)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.chatService.PostMessage(request.Context(), PostMessageInput{
		ChatID:      chatID,
		MessageText: input.MessageText,
		UserName:    username,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, message)
}

// containsMember reports whether the membership list already names the user.
func containsMember(members []string, username string) bool {
	for _, member := range members {
		if member == username {
			return true
		}
	}
	return false
}
