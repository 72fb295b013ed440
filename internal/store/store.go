package store

import (
	"context"
	"errors"

	"neurosync-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
// A conversation that exists but belongs to another user is also reported
// as not found; the API deliberately does not distinguish "forbidden".
var ErrNotFound = errors.New("record not found")

// CreateConversationParams contains parameters for creating a conversation.
// The conversation starts with an empty message list; the first turn pair
// is appended separately by the pipeline.
type CreateConversationParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Title  string
}

// Store defines the persistence operations used by the services layer.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Conversation operations. Reads are always scoped to the owning user.
	CreateConversation(ctx context.Context, arg CreateConversationParams) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit int) ([]models.ConversationSummary, error)

	// AppendTurn atomically appends a (user, assistant) message pair to the
	// end of the conversation's message list and refreshes updated_at. The
	// pair is applied in a single statement; there is no state where only
	// one of the two messages is present.
	AppendTurn(ctx context.Context, id uuid.UUID, userMsg, assistantMsg models.Message) error
}
