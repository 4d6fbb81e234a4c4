package llm

import (
	"context"
	"fmt"

	"github.com/symptom-triage/backend/pkg/config"
)

// Gateway abstracts one text-completion provider. Implementations make
// exactly one attempt per call; failures surface as *GatewayError with no
// retry and no fallback content.
type Gateway interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

type GatewayError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm gateway (%s): %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("llm gateway (%s): %s", e.Provider, e.Reason)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGateway selects the provider variant at startup from configuration.
func NewGateway(cfg config.LLMConfig) (Gateway, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIGateway(cfg), nil
	case "ollama":
		return NewOllamaGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
