package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration

	// LLM upstream (Groq exposes an OpenAI-compatible API).
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string
	LLMTimeout  time.Duration

	// Crisis screening keyword lists. Empty means "use the built-in
	// defaults"; set CRISIS_KEYWORDS / DISTRESS_KEYWORDS (comma-separated)
	// to override for locale or policy changes without a code change.
	CrisisKeywords   []string
	DistressKeywords []string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")                  // No default, should fail if not set
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	groqAPIKey := getEnv("GROQ_API_KEY", "")
	if groqAPIKey == "" {
		log.Fatal("FATAL: GROQ_API_KEY environment variable is not set.")
	}

	llmTimeoutStr := getEnv("LLM_TIMEOUT_SECONDS", "30")
	llmTimeoutSecs, err := strconv.Atoi(llmTimeoutStr)
	if err != nil {
		log.Printf("Warning: Invalid LLM_TIMEOUT_SECONDS '%s', using default 30s. Error: %v", llmTimeoutStr, err)
		llmTimeoutSecs = 30
	}

	cfg := &Config{
		HTTPPort:         port,
		JWTSecret:        jwtSecret,
		DatabaseURL:      dbURL,
		TokenExpiration:  time.Hour * time.Duration(tokenExpHours),
		GroqAPIKey:       groqAPIKey,
		GroqBaseURL:      getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:        getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		LLMTimeout:       time.Second * time.Duration(llmTimeoutSecs),
		CrisisKeywords:   splitKeywords(os.Getenv("CRISIS_KEYWORDS")),
		DistressKeywords: splitKeywords(os.Getenv("DISTRESS_KEYWORDS")),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, GroqModel=%s, LLMTimeout=%s",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.GroqModel, cfg.LLMTimeout)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Env variable %s not set, using default: %s", key, fallback)
	return fallback
}

// splitKeywords parses a comma-separated keyword list, dropping empty entries.
func splitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
