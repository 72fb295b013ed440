package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// personaPrompt is the fixed system prompt for the companion persona.
const personaPrompt = `You are NeuroSync AI, a compassionate and professional mental health companion. Your role is to:

1. Provide empathetic, supportive, and non-judgmental responses
2. Offer evidence-based mental health guidance and coping strategies
3. Help users understand their emotions and thoughts
4. Suggest practical techniques like breathing exercises, mindfulness, or grounding techniques when appropriate
5. Encourage professional help when necessary
6. Never provide medical diagnoses or replace professional treatment
7. Always maintain a caring, understanding tone
8. Keep responses concise but meaningful (2-4 sentences typically)
9. Ask follow-up questions to better understand the user's situation

Remember: You are a supportive companion, not a replacement for professional therapy or medical treatment. If someone expresses thoughts of self-harm or suicide, encourage them to seek immediate professional help or contact crisis hotlines.

IMPORTANT: Provide only your direct response to the user. Do not include any thinking process, reasoning steps, or content within <think>, <thinking>, [thinking], or similar tags. Give only the final response that should be shown to the user.`

// CompletionClient is the subset of the go-openai client this package and
// the sentiment classifier depend on. *openai.Client satisfies it.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client generates companion replies via an OpenAI-compatible chat
// completion endpoint (Groq in production).
type Client struct {
	client  CompletionClient
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func NewClient(client CompletionClient, model string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateResponse produces the assistant reply for userMessage, given the
// prior role-tagged conversation history. The raw model output is sanitized
// before being returned; callers always receive display-ready text.
func (c *Client) GenerateResponse(ctx context.Context, userMessage string, history []openai.ChatCompletionMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: personaPrompt,
	})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
		TopP:        1,
	})
	if err != nil {
		c.logger.Error("chat completion request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", mapUpstreamError(err), err)
	}

	if len(resp.Choices) == 0 {
		return fallbackResponse, nil
	}

	return Sanitize(resp.Choices[0].Message.Content), nil
}
