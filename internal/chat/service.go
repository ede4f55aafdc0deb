// Copyright (c) 2026 Push-It. All rights reserved.

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/metrics"
	"github.com/pushit/pushit/internal/profile"
	"github.com/pushit/pushit/pkg/pagination"
	"github.com/pushit/pushit/pkg/uuidv7"
)

// # Contracts & Types

// MemberDirectory resolves registered members. Satisfied by the profile
// service; the chat domain only needs existence and the display name.
type MemberDirectory interface {
	FindByUsername(context context.Context, username string) (*profile.Profile, error)
}

// Service implements the conversation and messaging use cases.
type Service struct {
	repository Repository
	directory  MemberDirectory
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its dependencies injected.
func NewService(repository Repository, directory MemberDirectory, recorder metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		directory:  directory,
		recorder:   recorder,
		logger:     logger,
	}
}

// # Conversation Lifecycle

// CreateChatInput holds the data required to open a new conversation.
type CreateChatInput struct {
	ChatName  string
	IsGroup   bool
	UserNames []string
}

/*
CreateChat opens a new conversation between the listed members.

Description: Every listed member must exist at creation time. The check and
the insert are not one atomic unit; a membership list is a snapshot, not a
foreign key, so a member deleted afterwards simply stops resolving.

Parameters:
  - context: context.Context
  - input: CreateChatInput

Returns:
  - *Chat: Created conversation
  - err: ValidationError naming the first unknown member, or storage errors
*/
func (service *Service) CreateChat(context context.Context, input CreateChatInput) (*Chat, error) {
	for _, username := range input.UserNames {
		if _, err := service.directory.FindByUsername(context, username); err != nil {
			if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusNotFound {
				return nil, apperr.ValidationError(fmt.Sprintf("Member %q is not a registered user", username))
			}
			return nil, err
		}
	}

	conversation := &Chat{
		ID:        uuidv7.New(),
		ChatName:  input.ChatName,
		IsGroup:   input.IsGroup,
		UserNames: input.UserNames,
	}

	if err := service.repository.CreateChat(context, conversation); err != nil {
		return nil, err
	}

	return conversation, nil
}

/*
DeleteChat removes a conversation and its entire message history.

Returns:
  - err: NotFound when the chat does not exist, or storage errors
*/
func (service *Service) DeleteChat(context context.Context, chatID string) error {
	return service.repository.DeleteChat(context, chatID)
}

/*
ListChats returns every conversation the member belongs to, newest first.

Returns:
  - []Chat: Conversations (empty slice when the member has none)
  - err: Storage errors
*/
func (service *Service) ListChats(context context.Context, username string) ([]Chat, error) {
	return service.repository.ListChatsByUsername(context, username)
}

// # Messaging

// PostMessageInput holds the data required to append to a chat's history.
type PostMessageInput struct {
	ChatID      string
	MessageText string
	UserName    string
}

/*
PostMessage appends a message to a conversation.

Description: The target chat must exist and the author must resolve in the
member directory. The author's current fullname is denormalized onto the
message so history reads never join back into the user tables.

Parameters:
  - context: context.Context
  - input: PostMessageInput

Returns:
  - *Message: Persisted entry
  - err: NotFound (chat or author) or storage errors
*/
func (service *Service) PostMessage(context context.Context, input PostMessageInput) (*Message, error) {
	if _, err := service.repository.FindChat(context, input.ChatID); err != nil {
		return nil, err
	}

	author, err := service.directory.FindByUsername(context, input.UserName)
	if err != nil {
		return nil, err
	}

	message := &Message{
		ID:          uuidv7.New(),
		ChatID:      input.ChatID,
		MessageText: input.MessageText,
		UserName:    author.Username,
		FullName:    author.FullName,
	}

	if err := service.repository.CreateMessage(context, message); err != nil {
		return nil, err
	}

	service.recorder.RecordMessagePosted()

	return message, nil
}

/*
ListMessages returns one page of a chat's history in posting order.

Description: An unknown chat fails NotFound rather than returning an empty
page, so callers can tell "no messages yet" apart from "no such chat".

Returns:
  - []Message: Page of history
  - pagination.Meta: Metadata for the page
  - err: NotFound or storage errors
*/
func (service *Service) ListMessages(context context.Context, chatID string, params pagination.Params) ([]Message, pagination.Meta, error) {
	if _, err := service.repository.FindChat(context, chatID); err != nil {
		return nil, pagination.Meta{}, err
	}

	messages, total, err := service.repository.ListMessages(context, chatID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return messages, pagination.NewMeta(params, total), nil
}
