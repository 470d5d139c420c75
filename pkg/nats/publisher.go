package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName    = "CHAT_EVENTS"
	SubjectPrefix = "chat.events"
)

// Subject returns the subject an event type is published on.
func Subject(eventType string) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, eventType)
}

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewPublisher connects to NATS and makes sure the chat event stream exists.
func NewPublisher(url string, log logger.ILogger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ".>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		// The stream may already exist with other settings, or NATS is still starting.
		log.Warn("NATS", "Failed to ensure event stream", map[string]interface{}{
			"stream": StreamName,
			"error":  err.Error(),
		})
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends an event to NATS.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := Subject(event.EventType())
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
