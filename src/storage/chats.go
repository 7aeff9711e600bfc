package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// ErrChatNotFound indicates a chat ID that does not exist in the database.
var ErrChatNotFound = errors.New("chat not found")

// CreateChat creates a new chat in the database
func CreateChat(ctx context.Context, db Execer, chat *Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}

	query := `INSERT INTO chats (id, user_id, title, created_at) VALUES (?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, chat.ID, chat.UserID, chat.Title, chat.CreatedAt)
	return err
}

// GetChatByID retrieves a chat by its ID
func GetChatByID(ctx context.Context, db sqlscan.Querier, chatID string) (*Chat, error) {
	query := `SELECT id, user_id, title, created_at FROM chats WHERE id = ?`
	var c Chat
	err := sqlscan.Get(ctx, db, &c, query, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &c, nil
}

// ListChatsByUserID retrieves all chats for a user, most recent first
func ListChatsByUserID(ctx context.Context, db sqlscan.Querier, userID string) ([]Chat, error) {
	query := `SELECT id, user_id, title, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC`
	var chats []Chat
	err := sqlscan.Select(ctx, db, &chats, query, userID)
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateMessage creates a new message in the database
func CreateMessage(ctx context.Context, db Execer, message *Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query := `INSERT INTO messages (chat_id, role, content, created_at) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query, message.ChatID, message.Role, message.Content, message.CreatedAt)
	if err != nil {
		return err
	}
	message.ID, err = result.LastInsertId()
	return err
}

// GetMessagesByChatID retrieves all messages for a chat ordered by insertion
func GetMessagesByChatID(ctx context.Context, db sqlscan.Querier, chatID string) ([]Message, error) {
	query := `SELECT id, chat_id, role, content, created_at FROM messages WHERE chat_id = ? ORDER BY id`
	var messages []Message
	err := sqlscan.Select(ctx, db, &messages, query, chatID)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteChat removes a chat and all of its messages in one transaction.
// Returns ErrChatNotFound if the chat does not exist; in that case nothing
// is deleted.
func DeleteChat(ctx context.Context, db *sql.DB, chatID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrChatNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}

	return tx.Commit()
}
