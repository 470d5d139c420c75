// Package title names new chats after their first message.
package title

import (
	"context"
	"strings"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"
)

const MaxLength = 80

// Fallback is used when the message carries no text at all.
const Fallback = "New chat"

type Generator struct {
	provider llm.LLMProvider
	model    string
	logger   logger.ILogger
}

func NewGenerator(provider llm.LLMProvider, model string, log logger.ILogger) *Generator {
	return &Generator{provider: provider, model: model, logger: log}
}

// FromMessage asks the title model for a title. Model failures never fail the
// turn: the message text, truncated, is used instead.
func (g *Generator) FromMessage(ctx context.Context, msg *entity.Message) string {
	text := strings.TrimSpace(msg.Text())

	if g.provider != nil {
		out, err := g.provider.Chat(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: constant.TitlePrompt},
			{Role: llm.RoleUser, Content: text},
		}, llm.WithModel(g.model))
		if err != nil {
			g.logger.Warn("TITLE", "Title generation failed, using message text", map[string]interface{}{
				"error": err.Error(),
			})
		} else if title := clean(out); title != "" {
			return title
		}
	}

	if title := clean(text); title != "" {
		return title
	}
	return Fallback
}

func clean(s string) string {
	s = llm.StripThink(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, `"'`)
	return truncate(strings.TrimSpace(s), MaxLength)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}
