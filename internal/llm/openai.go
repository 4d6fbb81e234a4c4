package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/symptom-triage/backend/pkg/config"
	"github.com/symptom-triage/backend/pkg/logger"
)

// OpenAIGateway reaches a hosted OpenAI-compatible chat-completion API. A
// non-empty BaseURL points it at compatible vendors.
type OpenAIGateway struct {
	client      *openai.Client
	apiKey      string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

func NewOpenAIGateway(cfg config.LLMConfig) *OpenAIGateway {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger.Info("OpenAI gateway initialized",
		zap.String("model", cfg.Model),
		zap.String("base_url", cfg.BaseURL),
	)

	return &OpenAIGateway{
		client:      openai.NewClientWithConfig(clientConfig),
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
	}
}

func (g *OpenAIGateway) Complete(ctx context.Context, model, prompt string) (string, error) {
	// The credential is a call-time requirement, not a startup one.
	if g.apiKey == "" {
		return "", &GatewayError{Provider: "openai", Reason: "missing API key"}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", &GatewayError{Provider: "openai", Reason: "completion request failed", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &GatewayError{Provider: "openai", Reason: "response contained no choices"}
	}

	logger.Debug("LLM completion generated",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
