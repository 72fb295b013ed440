package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendMessageRequest defines the body for posting a chat message.
// ConversationID is optional; when absent a new conversation is created.
type SendMessageRequest struct {
	Message        string     `json:"message"`
	ConversationID *uuid.UUID `json:"conversationId,omitempty"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatMessageView is the message shape the frontend renders. Assistant
// messages are exposed with type "bot", matching the client's vocabulary.
type ChatMessageView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "user" or "bot"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SendMessageResponse is the unified result of one pipeline run.
type SendMessageResponse struct {
	Response       string          `json:"response"`
	ConversationID uuid.UUID       `json:"conversationId"`
	Sentiment      string          `json:"sentiment"`
	IsCrisis       bool            `json:"isCrisis"`
	CrisisDetected bool            `json:"crisisDetected"`
	UserMessage    ChatMessageView `json:"userMessage"`
	BotMessage     ChatMessageView `json:"botMessage"`
}

// ConversationDetail is a single conversation with its full message list.
type ConversationDetail struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Messages  []ChatMessageView `json:"messages"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// GetConversationResponse wraps a single conversation.
type GetConversationResponse struct {
	Conversation ConversationDetail `json:"conversation"`
}

// ListConversationsResponse wraps the history listing.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}
