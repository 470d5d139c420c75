package artifact

import (
	"context"
	"strings"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"
)

// Generator wraps the artifact model.
type Generator struct {
	Provider llm.LLMProvider
	Model    string
}

// streamContent streams the model's answer to prompt and calls onDelta with
// the accumulated text after every delta. Reasoning output is ignored.
func (g Generator) streamContent(ctx context.Context, system, prompt string, onDelta func(accumulated, delta string) error) (string, error) {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: prompt},
	}

	var b strings.Builder
	err := g.Provider.Stream(ctx, history, func(c llm.StreamChunk) error {
		if c.Type != llm.ChunkText {
			return nil
		}
		b.WriteString(c.Text)
		return onDelta(b.String(), c.Text)
	}, llm.WithModel(g.Model))
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// stripFence removes a surrounding markdown code fence, if any.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		return s
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimRight(t, "\n")
}
