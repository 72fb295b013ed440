package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"neurosync-backend/internal/models"
	"neurosync-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Conversation Methods ---

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (
    id, user_id, title, messages
) VALUES (
    $1, $2, $3, '[]'::jsonb
)
RETURNING id, user_id, title, messages, created_at, updated_at;
`

func (s *PostgresStore) CreateConversation(ctx context.Context, arg store.CreateConversationParams) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, createConversation, arg.ID, arg.UserID, arg.Title)

	conv := &models.Conversation{}
	err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Messages,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}
	return conv, nil
}

const getConversation = `-- name: GetConversation :one
SELECT id, user_id, title, messages, created_at, updated_at
FROM conversations
WHERE id = $1 AND user_id = $2;
`

// GetConversation fetches a conversation scoped to its owning user.
// An existing conversation owned by someone else yields store.ErrNotFound.
func (s *PostgresStore) GetConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Conversation, error) {
	row := s.db.QueryRow(ctx, getConversation, id, userID)

	conv := &models.Conversation{}
	err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Messages,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}
	return conv, nil
}

const listConversations = `-- name: ListConversations :many
SELECT id,
       title,
       COALESCE(messages->-1->>'content', '') AS last_message,
       updated_at,
       jsonb_array_length(messages) AS message_count
FROM conversations
WHERE user_id = $1
ORDER BY updated_at DESC
LIMIT $2;
`

// ListConversations returns summaries for the user's conversations, newest
// updated first. The last-message content and count are computed in SQL
// over the JSONB message array instead of loading whole conversations.
func (s *PostgresStore) ListConversations(ctx context.Context, userID uuid.UUID, limit int) ([]models.ConversationSummary, error) {
	rows, err := s.db.Query(ctx, listConversations, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	items := []models.ConversationSummary{}
	for rows.Next() {
		var i models.ConversationSummary
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.LastMessage,
			&i.Timestamp,
			&i.MessageCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		items = append(items, i)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return items, nil
}

const appendTurn = `-- name: AppendTurn :exec
UPDATE conversations
SET messages = messages || $2::jsonb, updated_at = NOW()
WHERE id = $1;
`

// AppendTurn appends the (user, assistant) pair in one UPDATE. Concatenating
// a two-element JSONB array keeps the pair append atomic at row level; two
// concurrent appends to the same conversation interleave whole pairs, never
// halves.
func (s *PostgresStore) AppendTurn(ctx context.Context, id uuid.UUID, userMsg, assistantMsg models.Message) error {
	pair, err := json.Marshal([]models.Message{userMsg, assistantMsg})
	if err != nil {
		return fmt.Errorf("error marshaling message pair: %w", err)
	}

	tag, err := s.db.Exec(ctx, appendTurn, id, pair)
	if err != nil {
		return fmt.Errorf("error executing append turn: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
