package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Upstream failure causes, surfaced to the caller as distinguishable
// errors rather than a single opaque failure.
var (
	ErrInvalidAPIKey = errors.New("invalid Groq API key, please check your configuration")
	ErrRateLimited   = errors.New("rate limit exceeded, please try again in a moment")
	ErrUnavailable   = errors.New("Groq service is temporarily unavailable, please try again later")
	ErrGeneration    = errors.New("failed to generate AI response, please try again")
)

// mapUpstreamError translates a go-openai client error into one of the
// package's sentinel errors. Timeouts count as the service being
// unavailable.
func mapUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401:
			return ErrInvalidAPIKey
		case apiErr.HTTPStatusCode == 429:
			return ErrRateLimited
		case apiErr.HTTPStatusCode >= 500:
			return ErrUnavailable
		}
	}

	return ErrGeneration
}

// IsUpstreamError reports whether err is one of the LLM failure causes,
// so handlers can map it to a 503 without enumerating each sentinel.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrInvalidAPIKey) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrGeneration)
}
