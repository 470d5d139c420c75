package artifact

import (
	"context"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
)

// codeHandler sends the whole snippet so far with every delta.
type codeHandler struct {
	gen Generator
}

func NewCodeHandler(gen Generator) Handler {
	return &codeHandler{gen: gen}
}

func (h *codeHandler) Kind() string { return KindCode }

func (h *codeHandler) OnCreate(ctx context.Context, p CreateParams) (string, error) {
	return h.run(ctx, p.Sink, constant.CodeDocumentPrompt, p.Title)
}

func (h *codeHandler) OnUpdate(ctx context.Context, p UpdateParams) (string, error) {
	system := fmt.Sprintf(constant.UpdateDocumentPrompt, "code snippet", p.Document.Content)
	return h.run(ctx, p.Sink, system, p.Description)
}

func (h *codeHandler) run(ctx context.Context, sink datastream.DataSink, system, prompt string) (string, error) {
	content, err := h.gen.streamContent(ctx, system, prompt, func(accumulated, _ string) error {
		return sink.WriteData(datastream.DataEvent{Type: "code-delta", Content: stripFence(accumulated)})
	})
	if err != nil {
		return "", err
	}
	return stripFence(content), nil
}
