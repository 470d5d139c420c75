package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/dto"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Consume subscribes to the assistant message topic and persists every
// message it receives until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

// processMessage always acks: reconciliation is best effort and a failed
// save is logged, never retried.
func (cs *consumerService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var payload dto.AssistantMessagePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal assistant message", map[string]interface{}{
			"error": err,
		})
		return
	}

	attachments := payload.Attachments
	if attachments == nil {
		attachments = []entity.Attachment{}
	}
	reply := &entity.Message{
		Id:          payload.Id,
		ChatId:      payload.ChatId,
		Role:        payload.Role,
		Parts:       payload.Parts,
		Attachments: attachments,
	}

	if reply.Role != constant.MessageRoleAssistant || !reply.HasOutput() {
		cs.logger.Error("CONSUMER", "No assistant message found", map[string]interface{}{
			"chat_id":    payload.ChatId,
			"message_id": payload.Id,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().CreateBatch(ctx, []*entity.Message{reply}); err != nil {
		cs.logger.Error("CONSUMER", "Failed to save chat", map[string]interface{}{
			"chat_id":    payload.ChatId,
			"message_id": payload.Id,
			"error":      err,
		})
		return
	}

	cs.logger.Debug("CONSUMER", "Assistant message saved", map[string]interface{}{
		"chat_id":    payload.ChatId,
		"message_id": payload.Id,
	})
}
