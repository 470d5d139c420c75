package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/internal/dto"
	"github.com/YohanReddy/ai-chatbot/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService hands finished assistant messages to the consumer that persists them.
type IPublisherService interface {
	PublishAssistantMessage(ctx context.Context, msg *entity.Message) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) PublishAssistantMessage(ctx context.Context, msg *entity.Message) error {
	payload, err := json.Marshal(dto.AssistantMessagePayload{
		Id:          msg.Id,
		ChatId:      msg.ChatId,
		Role:        msg.Role,
		Parts:       msg.Parts,
		Attachments: msg.Attachments,
	})
	if err != nil {
		return fmt.Errorf("marshal assistant message: %w", err)
	}

	m := message.NewMessage(watermill.NewUUID(), payload)
	m.SetContext(ctx)
	if err := p.publisher.Publish(p.topicName, m); err != nil {
		return fmt.Errorf("publish assistant message %s: %w", msg.Id, err)
	}
	return nil
}
