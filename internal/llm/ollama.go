package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/symptom-triage/backend/pkg/config"
	"github.com/symptom-triage/backend/pkg/logger"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaGateway reaches a locally hosted Ollama chat endpoint over HTTP.
type OllamaGateway struct {
	baseURL string
	client  *http.Client
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message *ollamaMessage `json:"message"`
	Error   string         `json:"error"`
}

func NewOllamaGateway(cfg config.LLMConfig) *OllamaGateway {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger.Info("Ollama gateway initialized",
		zap.String("model", cfg.Model),
		zap.String("base_url", baseURL),
	)

	return &OllamaGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *OllamaGateway) Complete(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: model,
		Messages: []ollamaMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", &GatewayError{Provider: "ollama", Reason: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &GatewayError{Provider: "ollama", Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &GatewayError{Provider: "ollama", Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GatewayError{Provider: "ollama", Reason: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GatewayError{
			Provider: "ollama",
			Reason:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(data, &chatResp); err != nil {
		return "", &GatewayError{Provider: "ollama", Reason: "failed to decode response", Err: err}
	}

	if chatResp.Error != "" {
		return "", &GatewayError{Provider: "ollama", Reason: chatResp.Error}
	}

	if chatResp.Message == nil {
		return "", &GatewayError{Provider: "ollama", Reason: "response missing message field"}
	}

	return chatResp.Message.Content, nil
}
