package artifact

import (
	"context"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
)

type textHandler struct {
	gen Generator
}

func NewTextHandler(gen Generator) Handler {
	return &textHandler{gen: gen}
}

func (h *textHandler) Kind() string { return KindText }

func (h *textHandler) OnCreate(ctx context.Context, p CreateParams) (string, error) {
	return h.gen.streamContent(ctx, constant.TextDocumentPrompt, p.Title, func(_, delta string) error {
		return p.Sink.WriteData(datastream.DataEvent{Type: "text-delta", Content: delta})
	})
}

func (h *textHandler) OnUpdate(ctx context.Context, p UpdateParams) (string, error) {
	system := fmt.Sprintf(constant.UpdateDocumentPrompt, "document", p.Document.Content)
	return h.gen.streamContent(ctx, system, p.Description, func(_, delta string) error {
		return p.Sink.WriteData(datastream.DataEvent{Type: "text-delta", Content: delta})
	})
}
