package factory

import (
	"fmt"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/mock"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/ollama"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/openai"
)

type ProviderConfig struct {
	Type      string // "ollama", "openai" or "mock"
	BaseURL   string
	APIKey    string
	ModelName string
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Type {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.ModelName), nil
	case "openai":
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai provider needs an API key or a compatible base URL")
		}
		return openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.ModelName), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Type)
	}
}

// NewImageGenerator returns the image backend, or nil when the provider cannot draw.
func NewImageGenerator(provider llm.LLMProvider) llm.ImageGenerator {
	if g, ok := provider.(llm.ImageGenerator); ok {
		return g
	}
	return nil
}
