package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neurosync-backend/internal/auth"
	"neurosync-backend/internal/llm"
	"neurosync-backend/internal/models"
	"neurosync-backend/internal/sentiment"
	"neurosync-backend/internal/services"
	"neurosync-backend/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Minimal in-memory store; only what the chat handlers exercise.
type stubStore struct {
	conversations map[uuid.UUID]*models.Conversation
}

var _ store.Store = (*stubStore)(nil)

func newStubStore() *stubStore {
	return &stubStore{conversations: make(map[uuid.UUID]*models.Conversation)}
}

func (s *stubStore) CreateUser(ctx context.Context, user *models.User) error { return nil }
func (s *stubStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (s *stubStore) CreateConversation(ctx context.Context, arg store.CreateConversationParams) (*models.Conversation, error) {
	conv := &models.Conversation{ID: arg.ID, UserID: arg.UserID, Title: arg.Title, Messages: json.RawMessage("[]")}
	s.conversations[arg.ID] = conv
	return conv, nil
}

func (s *stubStore) GetConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Conversation, error) {
	conv, ok := s.conversations[id]
	if !ok || conv.UserID != userID {
		return nil, store.ErrNotFound
	}
	return conv, nil
}

func (s *stubStore) ListConversations(ctx context.Context, userID uuid.UUID, limit int) ([]models.ConversationSummary, error) {
	return []models.ConversationSummary{}, nil
}

func (s *stubStore) AppendTurn(ctx context.Context, id uuid.UUID, userMsg, assistantMsg models.Message) error {
	if _, ok := s.conversations[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) GenerateResponse(ctx context.Context, userMessage string, history []openai.ChatCompletionMessage) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(ctx context.Context, message string) sentiment.Analysis {
	return sentiment.Analysis{Sentiment: sentiment.SentimentNeutral}
}

func newTestRouter(t *testing.T, gen *stubGenerator, userID uuid.UUID) (*chi.Mux, *stubStore) {
	t.Helper()
	ss := newStubStore()
	svc := services.NewChatService(ss, gen, stubClassifier{}, zap.NewNop())
	h := NewChatHandlers(svc, zap.NewNop())

	r := chi.NewRouter()
	// Stand-in for the JWT middleware: inject the authenticated user directly.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/api/chat/message", h.HandleSendMessage)
	r.Get("/api/chat/history", h.HandleGetHistory)
	r.Get("/api/chat/conversation/{conversationID}", h.HandleGetConversation)
	return r, ss
}

func TestHandleSendMessage_BlankMessageReturns400(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{reply: "hi"}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", strings.NewReader(`{"message":"   "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message is required")
}

func TestHandleSendMessage_UpstreamFailureReturns503(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: status 429", llm.ErrRateLimited)}
	router, _ := newTestRouter(t, gen, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit")
}

func TestHandleSendMessage_Success(t *testing.T) {
	router, ss := newTestRouter(t, &stubGenerator{reply: "You're doing great."}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/chat/message", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "You're doing great.", resp.Response)
	assert.Equal(t, sentiment.SentimentNeutral, resp.Sentiment)
	assert.Contains(t, ss.conversations, resp.ConversationID)
}

func TestHandleGetConversation_MalformedIDReturns400(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{reply: "hi"}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversation/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid conversation ID format")
}

func TestHandleGetConversation_UnknownIDReturns404(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{reply: "hi"}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversation/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Conversation not found")
}

func TestHandleGetHistory_EmptyListing(t *testing.T) {
	router, _ := newTestRouter(t, &stubGenerator{reply: "hi"}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ListConversationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Conversations)
}
