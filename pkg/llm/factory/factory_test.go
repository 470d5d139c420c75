package factory

import (
	"testing"

	"github.com/YohanReddy/ai-chatbot/pkg/llm/mock"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/ollama"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(ProviderConfig{Type: "ollama", ModelName: "llama3.1"})
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Nil(t, NewImageGenerator(p))

	p, err = NewLLMProvider(ProviderConfig{Type: "openai", APIKey: "k", ModelName: "gpt-4o"})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)
	assert.NotNil(t, NewImageGenerator(p))

	p, err = NewLLMProvider(ProviderConfig{Type: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &mock.Provider{}, p)

	_, err = NewLLMProvider(ProviderConfig{Type: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ProviderConfig{Type: "gemini"})
	assert.Error(t, err)
}
