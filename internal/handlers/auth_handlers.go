package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"neurosync-backend/internal/models"
	"neurosync-backend/internal/services"
	"neurosync-backend/pkg/httputil"

	"go.uber.org/zap"
)

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// HandleSignup creates a new account and immediately logs it in.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserAlreadyExists):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("signup failed", zap.Error(err))
			httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	// Issue a token right away so the frontend can skip a separate login.
	token, _, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("post-signup login failed", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.AuthResponse{
		AccessToken: token,
		User:        models.UserResponse{ID: user.ID, Email: user.Email},
	})
}

// HandleLogin verifies credentials and returns a bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			httputil.RespondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.AuthResponse{
		AccessToken: token,
		User:        models.UserResponse{ID: user.ID, Email: user.Email},
	})
}
