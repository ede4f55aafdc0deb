// Copyright (c) 2026 Push-It. All rights reserved.

package chat

import (
	"context"

	"github.com/pushit/pushit/pkg/pagination"
)

// # Storage Contracts

// Repository defines the persistence contract for chats and their messages.
type Repository interface {
	// CreateChat persists a new conversation.
	CreateChat(context context.Context, chat *Chat) error

	// FindChat retrieves a single conversation by ID.
	FindChat(context context.Context, chatID string) (*Chat, error)

	// DeleteChat removes a conversation and, via cascade, its history.
	// Fails NotFound when no chat matched.
	DeleteChat(context context.Context, chatID string) error

	// ListChatsByUsername returns every conversation the member belongs to,
	// newest first.
	ListChatsByUsername(context context.Context, username string) ([]Chat, error)

	// CreateMessage appends a message to a chat's history.
	CreateMessage(context context.Context, message *Message) error

	// ListMessages returns one page of a chat's history in posting order,
	// along with the total message count.
	ListMessages(context context.Context, chatID string, params pagination.Params) ([]Message, int64, error)
}
