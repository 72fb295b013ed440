package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"neurosync-backend/internal/models"
	"neurosync-backend/internal/sentiment"
	"neurosync-backend/internal/store"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// titleMaxLen is the number of characters of the first user message
	// used as the conversation title.
	titleMaxLen = 50

	// historyListLimit caps how many conversations a history listing returns.
	historyListLimit = 50
)

// ResponseGenerator produces the assistant reply for a user message given
// the prior role-tagged history. Implemented by llm.Client.
type ResponseGenerator interface {
	GenerateResponse(ctx context.Context, userMessage string, history []openai.ChatCompletionMessage) (string, error)
}

// MessageClassifier screens a user message for sentiment and crisis risk.
// Implemented by sentiment.Classifier.
type MessageClassifier interface {
	Classify(ctx context.Context, message string) sentiment.Analysis
}

// ChatService orchestrates the message pipeline: history retrieval,
// crisis screening, reply generation and durable persistence of the
// (user, assistant) turn pair.
type ChatService struct {
	store      store.Store
	generator  ResponseGenerator
	classifier MessageClassifier
	logger     *zap.Logger
}

func NewChatService(s store.Store, generator ResponseGenerator, classifier MessageClassifier, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:      s,
		generator:  generator,
		classifier: classifier,
		logger:     logger,
	}
}

// SendMessage runs the full pipeline for one incoming chat message.
//
// The classifier and generator calls are issued sequentially even though
// neither result feeds the other's request; parallelizing them would be a
// safe latency win but is not done here.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, req models.SendMessageRequest) (*models.SendMessageResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}

	var history []openai.ChatCompletionMessage
	var conversationID uuid.UUID
	conversationMissing := false

	if req.ConversationID != nil {
		conversationID = *req.ConversationID
		conv, err := s.store.GetConversation(ctx, conversationID, userID)
		switch {
		case err == nil:
			history, err = messagesToHistory(conv.Messages)
			if err != nil {
				return nil, fmt.Errorf("failed to parse conversation messages: %w", err)
			}
		case errors.Is(err, store.ErrNotFound):
			// Unknown or unowned conversation id: proceed with empty
			// history rather than failing the whole request.
			conversationMissing = true
		default:
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}
	}

	analysis := s.classifier.Classify(ctx, req.Message)

	reply, err := s.generator.GenerateResponse(ctx, req.Message, history)
	if err != nil {
		// Nothing has been persisted at this point; the user message is
		// never stored without its reply.
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	if req.ConversationID == nil {
		created, err := s.store.CreateConversation(ctx, store.CreateConversationParams{
			ID:     uuid.New(),
			UserID: userID,
			Title:  deriveTitle(req.Message),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = created.ID
	}

	userMsg := models.Message{
		Type:      models.MessageTypeUser,
		Content:   req.Message,
		Timestamp: time.Now(),
	}
	botMsg := models.Message{
		Type:      models.MessageTypeAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	}

	if err := s.store.AppendTurn(ctx, conversationID, userMsg, botMsg); err != nil {
		if conversationMissing && errors.Is(err, store.ErrNotFound) {
			// The caller supplied an id we could not resolve for them; the
			// reply is still returned but nothing is persisted. This mirrors
			// the permissive lookup above.
			s.logger.Warn("skipping persistence for unknown conversation",
				zap.String("conversation_id", conversationID.String()),
				zap.String("user_id", userID.String()))
		} else {
			return nil, fmt.Errorf("failed to append turn: %w", err)
		}
	}

	if analysis.IsCrisis {
		s.logger.Info("crisis indicators detected",
			zap.String("user_id", userID.String()),
			zap.String("conversation_id", conversationID.String()),
			zap.Bool("keyword_match", analysis.CrisisDetected))
	}

	return &models.SendMessageResponse{
		Response:       reply,
		ConversationID: conversationID,
		Sentiment:      analysis.Sentiment,
		IsCrisis:       analysis.IsCrisis,
		CrisisDetected: analysis.CrisisDetected,
		UserMessage: models.ChatMessageView{
			ID:        strconv.FormatInt(userMsg.Timestamp.UnixMilli(), 10),
			Type:      "user",
			Text:      userMsg.Content,
			Timestamp: userMsg.Timestamp,
		},
		BotMessage: models.ChatMessageView{
			ID:        strconv.FormatInt(botMsg.Timestamp.UnixMilli()+1, 10),
			Type:      "bot",
			Text:      botMsg.Content,
			Timestamp: botMsg.Timestamp,
		},
	}, nil
}

// GetConversation returns a single conversation with its messages mapped to
// the frontend view shape.
func (s *ChatService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.GetConversationResponse, error) {
	conv, err := s.store.GetConversation(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err // Propagate not found error
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	var msgs []models.Message
	if err := json.Unmarshal(conv.Messages, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse conversation messages: %w", err)
	}

	views := make([]models.ChatMessageView, 0, len(msgs))
	for i, m := range msgs {
		msgType := "bot"
		if m.Type == models.MessageTypeUser {
			msgType = "user"
		}
		views = append(views, models.ChatMessageView{
			ID:        fmt.Sprintf("%s_%d", conv.ID, i),
			Type:      msgType,
			Text:      m.Content,
			Timestamp: m.Timestamp,
		})
	}

	return &models.GetConversationResponse{
		Conversation: models.ConversationDetail{
			ID:        conv.ID,
			Title:     conv.Title,
			Messages:  views,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		},
	}, nil
}

// ListConversations returns the user's conversation summaries, most
// recently updated first.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) (*models.ListConversationsResponse, error) {
	summaries, err := s.store.ListConversations(ctx, userID, historyListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	return &models.ListConversationsResponse{Conversations: summaries}, nil
}

// messagesToHistory maps stored messages to the role-tagged history the
// completion API expects, preserving order.
func messagesToHistory(raw json.RawMessage) ([]openai.ChatCompletionMessage, error) {
	var msgs []models.Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, err
	}

	history := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openai.ChatMessageRoleAssistant
		if m.Type == models.MessageTypeUser {
			role = openai.ChatMessageRoleUser
		}
		history = append(history, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return history, nil
}

// deriveTitle builds the conversation title from the first user message:
// the first 50 characters, with an ellipsis when truncated. Set once at
// creation, never recomputed.
func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleMaxLen {
		return message
	}
	return string(runes[:titleMaxLen]) + "..."
}
