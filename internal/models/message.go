package models

import (
	"time"
)

// Message types as stored in the conversations.messages JSONB array.
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
)

// Message represents a single message within a conversation.
// This structure is what's stored in the JSONB messages field of the
// 'conversations' table. User content is stored verbatim; assistant
// content is stored post-sanitization.
type Message struct {
	Type      string    `json:"type"`      // "user" or "assistant"
	Content   string    `json:"content"`   // The text content of the message
	Timestamp time.Time `json:"timestamp"` // Assigned by the pipeline at persistence time
}
