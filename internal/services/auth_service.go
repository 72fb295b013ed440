package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"neurosync-backend/internal/auth"
	"neurosync-backend/internal/config"
	"neurosync-backend/internal/models"
	"neurosync-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Custom errors for auth service
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrHashingPassword    = errors.New("failed to hash password")
	ErrCreatingToken      = errors.New("failed to create access token")
	ErrValidation         = errors.New("input validation failed") // Generic validation error
)

type AuthService struct {
	store  store.Store
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthService(s store.Store, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:  s,
		cfg:    cfg,
		logger: logger,
	}
}

// Signup creates a new user account.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	}

	// Check if user already exists
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("failed to check user existence", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	// User does not exist (store.ErrNotFound received), proceed.

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, ErrHashingPassword
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("creating user failed: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies user credentials and returns an access token and user info.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials // Basic check before hitting DB
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials // Don't reveal if user exists or password is wrong
		}
		s.logger.Error("failed to retrieve user during login", zap.String("email", email), zap.Error(err))
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.ID, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		s.logger.Error("failed to generate access token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return "", nil, ErrCreatingToken
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return token, user, nil
}
