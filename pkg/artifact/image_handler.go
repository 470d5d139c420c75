package artifact

import (
	"context"
	"errors"

	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"
)

var ErrNoImageModel = errors.New("no image model configured")

// imageHandler stores the generated image as base64 content.
type imageHandler struct {
	images llm.ImageGenerator
	model  string
}

func NewImageHandler(images llm.ImageGenerator, model string) Handler {
	return &imageHandler{images: images, model: model}
}

func (h *imageHandler) Kind() string { return KindImage }

func (h *imageHandler) OnCreate(ctx context.Context, p CreateParams) (string, error) {
	return h.draw(ctx, p.Sink, p.Title)
}

func (h *imageHandler) OnUpdate(ctx context.Context, p UpdateParams) (string, error) {
	return h.draw(ctx, p.Sink, p.Description)
}

func (h *imageHandler) draw(ctx context.Context, sink datastream.DataSink, prompt string) (string, error) {
	if h.images == nil {
		return "", ErrNoImageModel
	}
	img, err := h.images.GenerateImage(ctx, prompt, llm.WithModel(h.model))
	if err != nil {
		return "", err
	}
	if err := sink.WriteData(datastream.DataEvent{Type: "image-delta", Content: img}); err != nil {
		return "", err
	}
	return img, nil
}
