// Package artifact generates document content for the closed set of document kinds.
package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
)

const (
	KindText  = "text"
	KindCode  = "code"
	KindImage = "image"
	KindSheet = "sheet"
)

// Kinds lists every supported document kind.
var Kinds = []string{KindText, KindCode, KindImage, KindSheet}

var ErrNoHandler = errors.New("no document handler found for kind")

type CreateParams struct {
	Id    string
	Title string
	Sink  datastream.DataSink
}

type UpdateParams struct {
	Document    *entity.Document
	Description string
	Sink        datastream.DataSink
}

// Handler generates content for one kind and streams deltas to the sink.
// Handlers never persist; the Dispatcher does.
type Handler interface {
	Kind() string
	OnCreate(ctx context.Context, params CreateParams) (string, error)
	OnUpdate(ctx context.Context, params UpdateParams) (string, error)
}

// DocumentSaver stores a new document revision.
type DocumentSaver interface {
	SaveDocument(ctx context.Context, doc *entity.Document) error
}

type Dispatcher struct {
	handlers map[string]Handler
	saver    DocumentSaver
	logger   logger.ILogger
}

func NewDispatcher(saver DocumentSaver, log logger.ILogger, handlers ...Handler) *Dispatcher {
	m := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		m[h.Kind()] = h
	}
	return &Dispatcher{handlers: m, saver: saver, logger: log}
}

func (d *Dispatcher) Lookup(kind string) (Handler, error) {
	h, ok := d.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, kind)
	}
	return h, nil
}

// Create runs the kind's generator and stores the first revision when the
// principal is known. The generated content is returned either way.
func (d *Dispatcher) Create(ctx context.Context, principal *entity.Principal, chatId string, kind string, params CreateParams) (string, error) {
	h, err := d.Lookup(kind)
	if err != nil {
		return "", err
	}

	content, err := h.OnCreate(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create %s document: %w", kind, err)
	}

	doc := &entity.Document{
		Id:      params.Id,
		Title:   params.Title,
		Kind:    kind,
		Content: content,
	}
	if chatId != "" {
		doc.ChatId = &chatId
	}
	if err := d.persist(ctx, principal, doc); err != nil {
		return "", err
	}
	return content, nil
}

// Update regenerates the document from its current revision and stores a new one.
func (d *Dispatcher) Update(ctx context.Context, principal *entity.Principal, params UpdateParams) (string, error) {
	current := params.Document
	h, err := d.Lookup(current.Kind)
	if err != nil {
		return "", err
	}

	content, err := h.OnUpdate(ctx, params)
	if err != nil {
		return "", fmt.Errorf("update %s document: %w", current.Kind, err)
	}

	doc := &entity.Document{
		Id:      current.Id,
		Title:   current.Title,
		Kind:    current.Kind,
		Content: content,
		ChatId:  current.ChatId,
	}
	if err := d.persist(ctx, principal, doc); err != nil {
		return "", err
	}
	return content, nil
}

func (d *Dispatcher) persist(ctx context.Context, principal *entity.Principal, doc *entity.Document) error {
	if principal == nil || principal.Id == "" {
		d.logger.Debug("ARTIFACT", "skipping document save without principal", map[string]interface{}{"document_id": doc.Id})
		return nil
	}
	doc.UserId = principal.Id
	if err := d.saver.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document %s: %w", doc.Id, err)
	}
	return nil
}
