// Package sentiment screens user messages for emotional tone and
// self-harm risk. It is a conservative keyword-plus-LLM heuristic used to
// trigger a crisis-resources redirect in the UI, not a clinical
// determination.
package sentiment

import (
	"context"
	"strings"
	"time"

	"neurosync-backend/internal/llm"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Sentiment values returned by Classify.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// sentimentPrompt constrains the model to a one-word classification.
const sentimentPrompt = `You are a sentiment analysis expert. Analyze the following message and respond with ONLY ONE WORD: "positive", "negative", or "neutral". Consider the emotional tone, context, and mental health indicators.`

// Analysis is the screening result for a single user message.
type Analysis struct {
	Sentiment      string `json:"sentiment"`
	IsCrisis       bool   `json:"isCrisis"`
	CrisisDetected bool   `json:"crisisDetected"`
}

// Keywords holds the static phrase lists the classifier matches against.
// Both lists are matched case-insensitively as plain substrings.
type Keywords struct {
	// Crisis phrases: any hit sets CrisisDetected directly.
	Crisis []string
	// Distress phrases: a hit combined with negative sentiment sets IsCrisis.
	Distress []string
}

// DefaultKeywords returns the built-in phrase lists. Deployments can
// override them through configuration for locale or policy updates.
func DefaultKeywords() Keywords {
	return Keywords{
		Crisis: []string{
			"suicide", "kill myself", "end my life", "want to die", "death wish",
			"self-harm", "hurt myself", "cut myself", "no reason to live",
			"better off dead", "ending it all", "can't go on", "want to disappear",
			"hopeless", "worthless", "no point", "give up",
		},
		Distress: []string{
			"depressed", "anxiety", "can't handle", "overwhelming",
		},
	}
}

// Classifier performs keyword matching plus a one-word LLM sentiment call.
type Classifier struct {
	client   llm.CompletionClient
	model    string
	timeout  time.Duration
	keywords Keywords
	logger   *zap.Logger
}

func NewClassifier(client llm.CompletionClient, model string, timeout time.Duration, keywords Keywords, logger *zap.Logger) *Classifier {
	return &Classifier{
		client:   client,
		model:    model,
		timeout:  timeout,
		keywords: keywords,
		logger:   logger,
	}
}

// Classify screens one user message. A failing LLM call degrades the whole
// result to {neutral, false, false} rather than propagating the error; the
// chat must stay available even when sentiment analysis is down, and the
// keyword result alone is not surfaced without a sentiment to go with it.
// This availability-over-accuracy tradeoff is deliberate.
func (c *Classifier) Classify(ctx context.Context, message string) Analysis {
	messageLower := strings.ToLower(message)

	crisisDetected := containsAny(messageLower, c.keywords.Crisis)

	sentiment, err := c.analyzeSentiment(ctx, message)
	if err != nil {
		c.logger.Warn("sentiment analysis failed, degrading to neutral", zap.Error(err))
		return Analysis{Sentiment: SentimentNeutral}
	}

	isCrisis := crisisDetected ||
		(sentiment == SentimentNegative && containsAny(messageLower, c.keywords.Distress))

	return Analysis{
		Sentiment:      sentiment,
		IsCrisis:       isCrisis,
		CrisisDetected: crisisDetected,
	}
}

// analyzeSentiment asks the model for a one-word classification and
// substring-matches the reply, defaulting to neutral.
func (c *Classifier) analyzeSentiment(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: 0.3,
		MaxTokens:   10,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return SentimentNeutral, nil
	}

	reply := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch {
	case strings.Contains(reply, SentimentPositive):
		return SentimentPositive, nil
	case strings.Contains(reply, SentimentNegative):
		return SentimentNegative, nil
	default:
		return SentimentNeutral, nil
	}
}

func containsAny(haystack string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(haystack, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
