package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Chat Mappers

func (m *ChatMapper) ChatToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	return &entity.Chat{
		Id:         c.Id,
		UserId:     c.UserId,
		Title:      c.Title,
		Visibility: c.Visibility,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *ChatMapper) ChatToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	return &model.Chat{
		Id:         c.Id,
		UserId:     c.UserId,
		Title:      c.Title,
		Visibility: c.Visibility,
		CreatedAt:  c.CreatedAt.UTC(),
	}
}

// Message Mappers

func (m *ChatMapper) MessageToEntity(msg *model.Message) (*entity.Message, error) {
	if msg == nil {
		return nil, nil
	}

	parts := []entity.MessagePart{}
	if len(msg.Parts) > 0 {
		if err := json.Unmarshal(msg.Parts, &parts); err != nil {
			return nil, fmt.Errorf("decode parts of message %s: %w", msg.Id, err)
		}
	}

	attachments := []entity.Attachment{}
	if len(msg.Attachments) > 0 {
		if err := json.Unmarshal(msg.Attachments, &attachments); err != nil {
			return nil, fmt.Errorf("decode attachments of message %s: %w", msg.Id, err)
		}
	}

	return &entity.Message{
		Id:          msg.Id,
		ChatId:      msg.ChatId,
		Role:        msg.Role,
		Parts:       parts,
		Attachments: attachments,
		CreatedAt:   msg.CreatedAt,
	}, nil
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) (*model.Message, error) {
	if msg == nil {
		return nil, nil
	}

	parts := msg.Parts
	if parts == nil {
		parts = []entity.MessagePart{}
	}
	partsJSON, err := json.Marshal(parts)
	if err != nil {
		return nil, fmt.Errorf("encode parts of message %s: %w", msg.Id, err)
	}

	attachments := msg.Attachments
	if attachments == nil {
		attachments = []entity.Attachment{}
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments of message %s: %w", msg.Id, err)
	}

	return &model.Message{
		Id:          msg.Id,
		ChatId:      msg.ChatId,
		Role:        msg.Role,
		Parts:       datatypes.JSON(partsJSON),
		Attachments: datatypes.JSON(attachmentsJSON),
		CreatedAt:   msg.CreatedAt.UTC(),
	}, nil
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.Message) ([]*entity.Message, error) {
	entities := make([]*entity.Message, 0, len(msgs))
	for _, msg := range msgs {
		e, err := m.MessageToEntity(msg)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}
