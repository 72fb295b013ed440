package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"neurosync-backend/internal/auth"
	"neurosync-backend/internal/llm"
	"neurosync-backend/internal/models"
	"neurosync-backend/internal/services"
	"neurosync-backend/internal/store"
	"neurosync-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHandlers handles HTTP requests for the chat surface.
type ChatHandlers struct {
	chatService *services.ChatService
	logger      *zap.Logger
}

func NewChatHandlers(chatService *services.ChatService, logger *zap.Logger) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
		logger:      logger,
	}
}

// HandleSendMessage runs the message pipeline for an incoming chat message.
func (h *ChatHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chatService.SendMessage(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, "Message is required")
		case llm.IsUpstreamError(err):
			// Surface the upstream cause (bad key, rate limit, outage) so the
			// client can show a meaningful message.
			httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
		default:
			h.logger.Error("message pipeline failed", zap.String("user_id", userID.String()), zap.Error(err))
			httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetHistory lists the user's conversations, newest-updated first.
func (h *ChatHandlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp, err := h.chatService.ListConversations(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list conversations", zap.String("user_id", userID.String()), zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetConversation returns one conversation with its full message list.
func (h *ChatHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conversationIDStr := chi.URLParam(r, "conversationID")
	conversationID, err := uuid.Parse(conversationIDStr)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	resp, err := h.chatService.GetConversation(r.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		h.logger.Error("failed to get conversation",
			zap.String("user_id", userID.String()),
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
