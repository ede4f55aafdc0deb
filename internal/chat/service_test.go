// Copyright (c) 2026 Push-It. All rights reserved.

package chat_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushit/pushit/internal/chat"
	"github.com/pushit/pushit/internal/platform/apperr"
	"github.com/pushit/pushit/internal/platform/metrics"
	"github.com/pushit/pushit/internal/profile"
	"github.com/pushit/pushit/pkg/pagination"
)

// # Test Fakes

// memoryChatRepo is an in-memory chat Repository.
type memoryChatRepo struct {
	chats    map[string]*chat.Chat
	messages []*chat.Message
}

func newMemoryChatRepo() *memoryChatRepo {
	return &memoryChatRepo{chats: map[string]*chat.Chat{}}
}

func (repo *memoryChatRepo) CreateChat(_ context.Context, conversation *chat.Chat) error {
	clone := *conversation
	repo.chats[conversation.ID] = &clone
	return nil
}

func (repo *memoryChatRepo) FindChat(_ context.Context, chatID string) (*chat.Chat, error) {
	conversation, ok := repo.chats[chatID]
	if !ok {
		return nil, apperr.NotFound("Chat")
	}
	clone := *conversation
	return &clone, nil
}

func (repo *memoryChatRepo) DeleteChat(_ context.Context, chatID string) error {
	if _, ok := repo.chats[chatID]; !ok {
		return apperr.NotFound("Chat")
	}
	delete(repo.chats, chatID)

	remaining := repo.messages[:0]
	for _, message := range repo.messages {
		if message.ChatID != chatID {
			remaining = append(remaining, message)
		}
	}
	repo.messages = remaining
	return nil
}

func (repo *memoryChatRepo) ListChatsByUsername(_ context.Context, username string) ([]chat.Chat, error) {
	result := []chat.Chat{}
	for _, conversation := range repo.chats {
		for _, member := range conversation.UserNames {
			if member == username {
				result = append(result, *conversation)
				break
			}
		}
	}
	return result, nil
}

func (repo *memoryChatRepo) CreateMessage(_ context.Context, message *chat.Message) error {
	if _, ok := repo.chats[message.ChatID]; !ok {
		return apperr.NotFound("Chat")
	}
	clone := *message
	repo.messages = append(repo.messages, &clone)
	return nil
}

func (repo *memoryChatRepo) ListMessages(_ context.Context, chatID string, params pagination.Params) ([]chat.Message, int64, error) {
	inChat := []chat.Message{}
	for _, message := range repo.messages {
		if message.ChatID == chatID {
			inChat = append(inChat, *message)
		}
	}

	total := int64(len(inChat))
	start := params.Offset()
	if start > len(inChat) {
		return []chat.Message{}, total, nil
	}
	end := start + params.Limit
	if end > len(inChat) {
		end = len(inChat)
	}
	return inChat[start:end], total, nil
}

// stubDirectory resolves a fixed set of members.
type stubDirectory struct {
	members map[string]string // username -> fullname
}

func (directory *stubDirectory) FindByUsername(_ context.Context, username string) (*profile.Profile, error) {
	fullName, ok := directory.members[username]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	return &profile.Profile{
		Username:  username,
		FullName:  fullName,
		UpdatedAt: time.Now(),
	}, nil
}

func newChatService(repo *memoryChatRepo) *chat.Service {
	directory := &stubDirectory{members: map[string]string{
		"pat":   "Pat Example",
		"casey": "Casey Sample",
	}}
	return chat.NewService(repo, directory, metrics.Noop{}, slog.Default())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	return ae.HTTPStatus
}

// # Conversations

/*
TestCreateChat verifies creation with known members and rejection of
membership lists naming unregistered users.
*/
func TestCreateChat(t *testing.T) {
	service := newChatService(newMemoryChatRepo())

	t.Run("known_members", func(t *testing.T) {
		conversation, err := service.CreateChat(context.Background(), chat.CreateChatInput{
			ChatName:  "weekend plans",
			IsGroup:   true,
			UserNames: []string{"pat", "casey"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, conversation.ID)
		assert.Equal(t, []string{"pat", "casey"}, conversation.UserNames)
	})

	t.Run("unknown_member", func(t *testing.T) {
		_, err := service.CreateChat(context.Background(), chat.CreateChatInput{
			ChatName:  "ghost chat",
			UserNames: []string{"pat", "ghost"},
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

/*
TestDeleteChat verifies removal and the NotFound contract.
*/
func TestDeleteChat(t *testing.T) {
	repo := newMemoryChatRepo()
	service := newChatService(repo)

	conversation, err := service.CreateChat(context.Background(), chat.CreateChatInput{
		ChatName:  "to be deleted",
		UserNames: []string{"pat"},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteChat(context.Background(), conversation.ID))

	err = service.DeleteChat(context.Background(), conversation.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

/*
TestListChats verifies membership scoping.
*/
func TestListChats(t *testing.T) {
	service := newChatService(newMemoryChatRepo())

	_, err := service.CreateChat(context.Background(), chat.CreateChatInput{
		ChatName:  "pat and casey",
		UserNames: []string{"pat", "casey"},
	})
	require.NoError(t, err)
	_, err = service.CreateChat(context.Background(), chat.CreateChatInput{
		ChatName:  "casey only",
		UserNames: []string{"casey"},
	})
	require.NoError(t, err)

	patChats, err := service.ListChats(context.Background(), "pat")
	require.NoError(t, err)
	assert.Len(t, patChats, 1)

	caseyChats, err := service.ListChats(context.Background(), "casey")
	require.NoError(t, err)
	assert.Len(t, caseyChats, 2)
}

// # Messages

/*
TestPostMessage verifies author resolution and the unknown-chat contract.
*/
func TestPostMessage(t *testing.T) {
	service := newChatService(newMemoryChatRepo())

	conversation, err := service.CreateChat(context.Background(), chat.CreateChatInput{
		ChatName:  "general",
		UserNames: []string{"pat", "casey"},
	})
	require.NoError(t, err)

	t.Run("resolves_author_fullname", func(t *testing.T) {
		message, err := service.PostMessage(context.Background(), chat.PostMessageInput{
			ChatID:      conversation.ID,
			MessageText: "hello there",
			UserName:    "pat",
		})
		require.NoError(t, err)
		assert.Equal(t, "pat", message.UserName)
		assert.Equal(t, "Pat Example", message.FullName)
		assert.NotEmpty(t, message.ID)
	})

	t.Run("unknown_chat", func(t *testing.T) {
		_, err := service.PostMessage(context.Background(), chat.PostMessageInput{
			ChatID:      "00000000-0000-0000-0000-000000000000",
			MessageText: "into the void",
			UserName:    "pat",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("unknown_author", func(t *testing.T) {
		_, err := service.PostMessage(context.Background(), chat.PostMessageInput{
			ChatID:      conversation.ID,
			MessageText: "who am I",
			UserName:    "ghost",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

/*
TestListMessages verifies pagination math over a seeded history.
*/
func TestListMessages(t *testing.T) {
	service := newChatService(newMemoryChatRepo())

	conversation, err := service.CreateChat(context.Background(), chat.CreateChatInput{
		ChatName:  "busy channel",
		UserNames: []string{"pat"},
	})
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		_, err := service.PostMessage(context.Background(), chat.PostMessageInput{
			ChatID:      conversation.ID,
			MessageText: fmt.Sprintf("message %d", i),
			UserName:    "pat",
		})
		require.NoError(t, err)
	}

	t.Run("first_page", func(t *testing.T) {
		messages, meta, err := service.ListMessages(context.Background(), conversation.ID, pagination.Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, messages, 10)
		assert.Equal(t, int64(25), meta.Total)
		assert.Equal(t, 3, meta.TotalPages)
	})

	t.Run("last_partial_page", func(t *testing.T) {
		messages, meta, err := service.ListMessages(context.Background(), conversation.ID, pagination.Params{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, messages, 5)
		assert.Equal(t, 3, meta.Page)
	})

	t.Run("past_the_end", func(t *testing.T) {
		messages, _, err := service.ListMessages(context.Background(), conversation.ID, pagination.Params{Page: 99, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("unknown_chat", func(t *testing.T) {
		_, _, err := service.ListMessages(context.Background(), "missing", pagination.Params{Page: 1, Limit: 10})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}
