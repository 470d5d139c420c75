package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/mapper"
	"github.com/YohanReddy/ai-chatbot/internal/model"
	"github.com/YohanReddy/ai-chatbot/internal/repository/contract"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"

	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) CreateBatch(ctx context.Context, messages []*entity.Message) error {
	if len(messages) == 0 {
		return nil
	}

	// Messages of one batch keep their slice order: unset timestamps are spread
	// one microsecond apart so chronological reads return them as given.
	base := time.Now().UTC()
	models := make([]*model.Message, 0, len(messages))
	for i, msg := range messages {
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
		}
		m, err := r.mapper.MessageToModel(msg)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	// A single multi-row INSERT: either every message lands or none does.
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *MessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	var m model.Message
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m)
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models)
}

func (r *MessageRepositoryImpl) CountByUserSince(ctx context.Context, userId string, role string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("chats.user_id = ? AND messages.role = ? AND messages.created_at >= ?", userId, role, since.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepositoryImpl) DeleteByChatId(ctx context.Context, chatId string) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatId).Delete(&model.Message{}).Error
}
