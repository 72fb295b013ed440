package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a user in the database.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Conversation represents a chat thread owned by a single user.
// Messages holds the full ordered message list as a JSONB array; the
// message pipeline only ever appends (user, assistant) pairs to it.
type Conversation struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Title     string          `db:"title"`
	Messages  json.RawMessage `db:"messages"` // JSONB array of Message
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// ConversationSummary is the per-conversation row returned by history
// listing. LastMessage is the content of the final message, or "" for an
// empty conversation (only possible in the window between creation and the
// first turn append).
type ConversationSummary struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	LastMessage  string    `db:"last_message" json:"lastMessage"`
	Timestamp    time.Time `db:"updated_at" json:"timestamp"`
	MessageCount int       `db:"message_count" json:"messageCount"`
}
