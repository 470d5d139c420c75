// Package history builds the model context of a turn from stored messages.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/repository/contract"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"
)

// Assemble returns the stored messages of the chat in chronological order
// with the incoming message appended last. Nothing is persisted.
func Assemble(ctx context.Context, messages contract.MessageRepository, chatId string, incoming *entity.Message) ([]*entity.Message, error) {
	stored, err := messages.FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.Chronological{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages of chat %s: %w", chatId, err)
	}

	out := make([]*entity.Message, 0, len(stored)+1)
	out = append(out, stored...)
	if incoming != nil {
		out = append(out, incoming)
	}
	return out, nil
}

// ToModelMessages converts conversation messages into provider messages,
// prefixed with the system prompt. Each assistant step becomes one assistant
// message followed by one tool message per completed tool call.
func ToModelMessages(system string, msgs []*entity.Message) []llm.Message {
	out := make([]llm.Message, 0, len(msgs)+1)
	if system != "" {
		out = append(out, llm.Message{Role: llm.RoleSystem, Content: system})
	}

	for _, m := range msgs {
		switch m.Role {
		case constant.MessageRoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: userContent(m)})
		case constant.MessageRoleAssistant:
			out = append(out, assistantSteps(m)...)
		}
	}
	return out
}

func userContent(m *entity.Message) string {
	text := m.Text()
	if len(m.Attachments) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for _, a := range m.Attachments {
		fmt.Fprintf(&b, "\n[Attachment: %s (%s) %s]", a.Name, a.ContentType, a.Url)
	}
	return b.String()
}

func assistantSteps(m *entity.Message) []llm.Message {
	var out []llm.Message
	var text strings.Builder
	var calls []llm.ToolCall
	var results []llm.Message

	flush := func() {
		if text.Len() == 0 && len(calls) == 0 {
			return
		}
		out = append(out, llm.Message{Role: llm.RoleAssistant, Content: text.String(), ToolCalls: calls})
		out = append(out, results...)
		text.Reset()
		calls = nil
		results = nil
	}

	for _, p := range m.Parts {
		switch p.Type {
		case entity.PartTypeStepStart:
			flush()
		case entity.PartTypeText:
			text.WriteString(p.Text)
		case entity.PartTypeToolInvocation:
			inv := p.ToolInvocation
			// A call without a result cannot be replayed to the model.
			if inv == nil || inv.State != entity.ToolStateResult {
				continue
			}
			calls = append(calls, llm.ToolCall{Id: inv.ToolCallId, Name: inv.ToolName, Arguments: inv.Args})
			results = append(results, llm.Message{
				Role:       llm.RoleTool,
				Content:    string(inv.Result),
				ToolCallId: inv.ToolCallId,
				ToolName:   inv.ToolName,
			})
		}
	}
	flush()
	return out
}
