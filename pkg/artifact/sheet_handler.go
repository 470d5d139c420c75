package artifact

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
)

type sheetHandler struct {
	gen Generator
}

func NewSheetHandler(gen Generator) Handler {
	return &sheetHandler{gen: gen}
}

func (h *sheetHandler) Kind() string { return KindSheet }

func (h *sheetHandler) OnCreate(ctx context.Context, p CreateParams) (string, error) {
	return h.run(ctx, p.Sink, constant.SheetDocumentPrompt, p.Title)
}

func (h *sheetHandler) OnUpdate(ctx context.Context, p UpdateParams) (string, error) {
	system := fmt.Sprintf(constant.UpdateDocumentPrompt, "spreadsheet", p.Document.Content)
	return h.run(ctx, p.Sink, system, p.Description)
}

func (h *sheetHandler) run(ctx context.Context, sink datastream.DataSink, system, prompt string) (string, error) {
	content, err := h.gen.streamContent(ctx, system, prompt, func(accumulated, _ string) error {
		return sink.WriteData(datastream.DataEvent{Type: "sheet-delta", Content: stripFence(accumulated)})
	})
	if err != nil {
		return "", err
	}

	normalized := normalizeCSV(stripFence(content))
	if err := sink.WriteData(datastream.DataEvent{Type: "sheet-delta", Content: normalized}); err != nil {
		return "", err
	}
	return normalized, nil
}

// normalizeCSV rewrites the model output as well-formed CSV with a fixed
// column count. Unparseable input is returned trimmed.
func normalizeCSV(raw string) string {
	r := csv.NewReader(strings.NewReader(strings.TrimSpace(raw)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return strings.TrimSpace(raw)
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, rec := range records {
		for len(rec) < width {
			rec = append(rec, "")
		}
		if err := w.Write(rec); err != nil {
			return strings.TrimSpace(raw)
		}
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}
