// Copyright (c) 2026 Push-It. All rights reserved.

/*
Package chat implements conversations and their message history.

A chat is a named container with a flat membership list. Messages reference
their chat and carry a denormalized author fullname so history reads do not
fan out into the user tables.
*/
package chat

import "time"

// # Domain Entities

// Chat represents a conversation between two or more members.
type Chat struct {
	ID        string    `json:"id"`
	ChatName  string    `json:"chat_name"`
	IsGroup   bool      `json:"is_group"`
	UserNames []string  `json:"user_names"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single entry in a chat's history.
//
// FullName is captured at posting time. A later profile rename does not
// rewrite history.
type Message struct {
	ID          string    `json:"id"`
	ChatID      string    `json:"chat_id"`
	MessageText string    `json:"message_text"`
	UserName    string    `json:"user_name"`
	FullName    string    `json:"full_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldChatName    = "chat_name"
	FieldUserNames   = "user_names"
	FieldMessageText = "message_text"
	FieldChatID      = "chat_id"
)
