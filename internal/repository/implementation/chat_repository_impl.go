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

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	m := r.mapper.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chat = *r.mapper.ChatToEntity(m)
	return nil
}

func (r *ChatRepositoryImpl) UpdateVisibility(ctx context.Context, id string, visibility string) error {
	result := r.db.WithContext(ctx).Model(&model.Chat{}).Where("id = ?", id).Update("visibility", visibility)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Chat{}).Error
}

func (r *ChatRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	var m model.Chat
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Chat, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatToEntity(m)
	}
	return entities, nil
}
