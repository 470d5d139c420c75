package service

import (
	"context"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/events"
)

const eventPublishTimeout = 2 * time.Second

// EventBus is implemented by *nats.Publisher.
type EventBus interface {
	Publish(ctx context.Context, event events.Event) error
}

// IEventPublisher announces chat lifecycle changes. Publishing is fire and
// forget: failures are logged and never fail the request.
type IEventPublisher interface {
	PublishChatCreated(ctx context.Context, chat *entity.Chat)
	PublishChatDeleted(ctx context.Context, chat *entity.Chat)
	PublishDocumentSaved(ctx context.Context, doc *entity.Document)
}

type eventPublisher struct {
	bus    EventBus
	logger logger.ILogger
}

// NewEventPublisher returns a publisher over bus. A nil bus disables publishing.
func NewEventPublisher(bus EventBus, logger logger.ILogger) IEventPublisher {
	return &eventPublisher{bus: bus, logger: logger}
}

func (p *eventPublisher) PublishChatCreated(ctx context.Context, chat *entity.Chat) {
	p.publish(ctx, events.NewEvent(events.ChatCreated, map[string]interface{}{
		"chat_id":     chat.Id,
		"user_id":     chat.UserId,
		"visibility":  chat.Visibility,
		"entity_type": "chat",
		"entity_id":   chat.Id,
	}))
}

func (p *eventPublisher) PublishChatDeleted(ctx context.Context, chat *entity.Chat) {
	p.publish(ctx, events.NewEvent(events.ChatDeleted, map[string]interface{}{
		"chat_id":     chat.Id,
		"user_id":     chat.UserId,
		"entity_type": "chat",
		"entity_id":   chat.Id,
	}))
}

func (p *eventPublisher) PublishDocumentSaved(ctx context.Context, doc *entity.Document) {
	data := map[string]interface{}{
		"document_id": doc.Id,
		"kind":        doc.Kind,
		"user_id":     doc.UserId,
		"revision_at": doc.CreatedAt.UTC(),
		"entity_type": "document",
		"entity_id":   doc.Id,
	}
	if doc.ChatId != nil {
		data["chat_id"] = *doc.ChatId
	}
	p.publish(ctx, events.NewEvent(events.DocumentSaved, data))
}

func (p *eventPublisher) publish(ctx context.Context, evt events.BaseEvent) {
	if p.bus == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := p.bus.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+evt.Type+" event", map[string]interface{}{"error": err.Error()})
	}
}
