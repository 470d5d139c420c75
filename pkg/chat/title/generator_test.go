package title

import (
	"context"
	"strings"
	"testing"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(text string) *entity.Message {
	return &entity.Message{Parts: []entity.MessagePart{{Type: entity.PartTypeText, Text: text}}}
}

func TestGenerator_UsesTitleModel(t *testing.T) {
	provider := mock.NewProvider().WithResponse(`<think>short</think> "Weekend in Rome"`)
	g := NewGenerator(provider, "title-llm", logger.NewNopLogger())

	assert.Equal(t, "Weekend in Rome", g.FromMessage(context.Background(), message("plan a weekend in rome")))

	require.Equal(t, 1, provider.CallCount())
	call := provider.Calls[0]
	assert.Equal(t, "title-llm", call.Options.Model)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: constant.TitlePrompt}, call.History[0])
	assert.Equal(t, "plan a weekend in rome", call.History[1].Content)
}

func TestGenerator_Fallbacks(t *testing.T) {
	long := strings.Repeat("word ", 40)

	tests := []struct {
		name     string
		provider llm.LLMProvider
		ctx      func() context.Context
		text     string
		want     string
	}{
		{"no provider", nil, context.Background, "hello there", "hello there"},
		{"provider error", mock.NewProvider(), func() context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx
		}, "hello there", "hello there"},
		{"blank model output", mock.NewProvider().WithResponse("   "), context.Background, "hi", "hi"},
		{"long text is truncated", nil, context.Background, long, strings.TrimSpace(long[:MaxLength])},
		{"no text at all", nil, context.Background, "  ", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.provider, "m", logger.NewNopLogger())
			got := g.FromMessage(tt.ctx(), message(tt.text))
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), MaxLength)
		})
	}
}
