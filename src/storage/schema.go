package storage

import "time"

// Chat is a conversation owned by a user. The title is derived from the
// first user message at creation time and never changes afterwards.
type Chat struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Message is a single persisted message within a chat. The content column
// holds the JSON-encoded message body so tool calls and citations survive a
// round trip through the database.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	ChatID    string    `json:"chat_id" db:"chat_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
