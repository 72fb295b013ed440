package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neurosync-backend/internal/api"
	"neurosync-backend/internal/config"
	"neurosync-backend/internal/handlers"
	"neurosync-backend/internal/llm"
	"neurosync-backend/internal/sentiment"
	"neurosync-backend/internal/services"
	"neurosync-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("FATAL: Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting NeuroSync backend")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("unable to create database connection pool", zap.Error(err))
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		logger.Fatal("unable to ping database", zap.Error(err))
	}
	logger.Info("database connection pool established")

	// 3. Initialize Dependencies (Store, LLM, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)

	// Groq exposes an OpenAI-compatible API; point the client at it.
	openaiCfg := openai.DefaultConfig(cfg.GroqAPIKey)
	openaiCfg.BaseURL = cfg.GroqBaseURL
	completionClient := openai.NewClientWithConfig(openaiCfg)

	generator := llm.NewClient(completionClient, cfg.GroqModel, cfg.LLMTimeout, logger)

	keywords := sentiment.DefaultKeywords()
	if len(cfg.CrisisKeywords) > 0 {
		keywords.Crisis = cfg.CrisisKeywords
	}
	if len(cfg.DistressKeywords) > 0 {
		keywords.Distress = cfg.DistressKeywords
	}
	classifier := sentiment.NewClassifier(completionClient, cfg.GroqModel, cfg.LLMTimeout, keywords, logger)

	authService := services.NewAuthService(pgStore, cfg, logger)
	chatService := services.NewChatService(pgStore, generator, classifier, logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	chatHandler := handlers.NewChatHandlers(chatService, logger)

	// 4. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		AuthHandler: authHandler,
		ChatHandler: chatHandler,
		Config:      cfg,
	})

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Production hardening: Set timeouts to avoid Slowloris attacks
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listener failed", zap.Error(err))
		}
	}()

	<-stopChan
	logger.Info("shutdown signal received, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server shutdown complete")
}
