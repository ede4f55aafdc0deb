// Copyright (c) 2026 Push-It. All rights reserved.

// PostgreSQL implementation of the chat storage contract.
//
// # Schema Notes
//
// Membership is a text[] column on the chats row rather than a join table.
// Lookups use `$1 = ANY(user_names)` which stays cheap at the expected
// membership sizes. Messages cascade-delete with their chat.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/dberr"
	"github.com/pushit/pushit/pkg/pagination"
)

// PostgresChatRepository implements [Repository] using pgx.
type PostgresChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new PostgreSQL implementation of the chat store.
func NewChatRepository(pool *pgxpool.Pool) *PostgresChatRepository {
	return &PostgresChatRepository{pool: pool}
}

const chatColumns = `id, chat_name, is_group, user_names, created_at`
const messageColumns = `id, chat_id, message_text, user_name, full_name, created_at`

func scanChat(row pgx.Row) (*Chat, error) {
	conversation := &Chat{}
	err := row.Scan(
		&conversation.ID,
		&conversation.ChatName,
		&conversation.IsGroup,
		&conversation.UserNames,
		&conversation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

func scanMessage(row pgx.Row) (*Message, error) {
	message := &Message{}
	err := row.Scan(
		&message.ID,
		&message.ChatID,
		&message.MessageText,
		&message.UserName,
		&message.FullName,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return message, nil
}

/*
CreateChat persists a new conversation.

Parameters:
  - context: context.Context
  - chat: *Chat (Entity to persist)

Returns:
  - error: Wrapped database errors
*/
func (repository *PostgresChatRepository) CreateChat(context context.Context, chat *Chat) error {
	const query = `
		INSERT INTO chats (id, chat_name, is_group, user_names, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		chat.ID,
		chat.ChatName,
		chat.IsGroup,
		chat.UserNames,
		chat.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err)
	}

	return nil
}

/*
FindChat retrieves a single conversation by ID.

Returns:
  - *Chat: Hydrated conversation
  - error: apperr.NotFound or wrapped database errors
*/
func (repository *PostgresChatRepository) FindChat(context context.Context, chatID string) (*Chat, error) {
	const query = `SELECT ` + chatColumns + ` FROM chats WHERE id = $1`

	conversation, err := scanChat(repository.pool.QueryRow(context, query, chatID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Chat")
		}
		return nil, dberr.Wrap(err)
	}

	return conversation, nil
}

/*
DeleteChat removes a conversation. The foreign key cascade removes its
message history in the same statement.

Returns:
  - error: apperr.NotFound when no chat matched, or wrapped database errors
*/
func (repository *PostgresChatRepository) DeleteChat(context context.Context, chatID string) error {
	const query = `DELETE FROM chats WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, chatID)
	if err != nil {
		return dberr.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Chat")
	}

	return nil
}

/*
ListChatsByUsername returns every conversation the member belongs to.

Description: Membership is tested with ANY over the user_names array. Results
are ordered newest first.

Returns:
  - []Chat: Conversations (empty slice when the member has none)
  - error: Wrapped database errors
*/
func (repository *PostgresChatRepository) ListChatsByUsername(context context.Context, username string) ([]Chat, error) {
	const query = `
		SELECT ` + chatColumns + `
		FROM chats
		WHERE $1 = ANY(user_names)
		ORDER BY created_at DESC`

	rows, err := repository.pool.Query(context, query, username)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	defer rows.Close()

	chats := []Chat{}
	for rows.Next() {
		conversation, err := scanChat(rows)
		if err != nil {
			return nil, dberr.Wrap(err)
		}
		chats = append(chats, *conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err)
	}

	return chats, nil
}

/*
CreateMessage appends a message to a chat's history.

Returns:
  - error: apperr.NotFound when the chat vanished underneath the insert,
    or wrapped database errors
*/
func (repository *PostgresChatRepository) CreateMessage(context context.Context, message *Message) error {
	const query = `
		INSERT INTO messages (id, chat_id, message_text, user_name, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		message.ID,
		message.ChatID,
		message.MessageText,
		message.UserName,
		message.FullName,
		message.CreatedAt,
	)
	if err != nil {
		// A concurrent chat deletion surfaces as a foreign key violation.
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Chat")
		}
		return dberr.Wrap(err)
	}

	return nil
}

/*
ListMessages returns one page of a chat's history in posting order.

Description: Two queries under the same pool: the page itself and the total
count for pagination metadata.

Returns:
  - []Message: Page of history (empty slice when past the end)
  - int64: Total messages in the chat
  - error: Wrapped database errors
*/
func (repository *PostgresChatRepository) ListMessages(context context.Context, chatID string, params pagination.Params) ([]Message, int64, error) {
	const query = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, chatID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err)
		}
		messages = append(messages, *message)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err)
	}

	const countQuery = `SELECT COUNT(*) FROM messages WHERE chat_id = $1`

	var total int64
	if err := repository.pool.QueryRow(context, countQuery, chatID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err)
	}

	return messages, total, nil
}
