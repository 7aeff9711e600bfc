package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndGetChat(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	chat := &Chat{UserID: "user-1", Title: "hello world"}
	require.NoError(t, CreateChat(ctx, db.DB(), chat))
	require.NotEmpty(t, chat.ID)
	require.False(t, chat.CreatedAt.IsZero())

	got, err := GetChatByID(ctx, db.DB(), chat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, chat.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "hello world", got.Title)
}

func TestGetChatByIDNotFound(t *testing.T) {
	db := openTestDB(t)

	got, err := GetChatByID(context.Background(), db.DB(), "no-such-chat")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListChatsByUserID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, CreateChat(ctx, db.DB(), &Chat{UserID: "user-1", Title: title}))
	}
	require.NoError(t, CreateChat(ctx, db.DB(), &Chat{UserID: "user-2", Title: "other"}))

	chats, err := ListChatsByUserID(ctx, db.DB(), "user-1")
	require.NoError(t, err)
	assert.Len(t, chats, 3)
	for _, c := range chats {
		assert.Equal(t, "user-1", c.UserID)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	chat := &Chat{UserID: "user-1", Title: "t"}
	require.NoError(t, CreateChat(ctx, db.DB(), chat))

	first := &Message{ChatID: chat.ID, Role: "user", Content: `{"role":"user","content":"hi"}`}
	second := &Message{ChatID: chat.ID, Role: "assistant", Content: `{"role":"assistant","content":"hello"}`}
	require.NoError(t, CreateMessage(ctx, db.DB(), first))
	require.NoError(t, CreateMessage(ctx, db.DB(), second))
	assert.Greater(t, second.ID, first.ID, "ids must be assigned in insertion order")

	messages, err := GetMessagesByChatID(ctx, db.DB(), chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
}

func TestDeleteChatCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	keep := &Chat{UserID: "user-1", Title: "keep"}
	drop := &Chat{UserID: "user-1", Title: "drop"}
	require.NoError(t, CreateChat(ctx, db.DB(), keep))
	require.NoError(t, CreateChat(ctx, db.DB(), drop))
	require.NoError(t, CreateMessage(ctx, db.DB(), &Message{ChatID: keep.ID, Role: "user", Content: "a"}))
	require.NoError(t, CreateMessage(ctx, db.DB(), &Message{ChatID: drop.ID, Role: "user", Content: "b"}))
	require.NoError(t, CreateMessage(ctx, db.DB(), &Message{ChatID: drop.ID, Role: "assistant", Content: "c"}))

	require.NoError(t, DeleteChat(ctx, db.DB(), drop.ID))

	gone, err := GetChatByID(ctx, db.DB(), drop.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	orphans, err := GetMessagesByChatID(ctx, db.DB(), drop.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans, "messages of a deleted chat must not survive")

	kept, err := GetMessagesByChatID(ctx, db.DB(), keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1, "other chats must be untouched")
}

func TestDeleteChatNotFound(t *testing.T) {
	db := openTestDB(t)

	err := DeleteChat(context.Background(), db.DB(), "no-such-chat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChatNotFound))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := Open(path)
	require.NoError(t, err)
	chat := &Chat{UserID: "user-1", Title: "t"}
	require.NoError(t, CreateChat(context.Background(), db.DB(), chat))
	require.NoError(t, db.Close())

	// Reopening must not rerun the schema and must keep existing rows.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := GetChatByID(context.Background(), db.DB(), chat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}
