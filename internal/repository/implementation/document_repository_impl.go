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

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	m := r.mapper.DocumentToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.DocumentToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.DocumentsToEntities(models), nil
}

func (r *DocumentRepositoryImpl) FindLatest(ctx context.Context, id string) (*entity.Document, error) {
	var m model.Document
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DocumentToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindIdsByChatId(ctx context.Context, chatId string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("chat_id = ?", chatId).
		Distinct().
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *DocumentRepositoryImpl) DeleteByChatId(ctx context.Context, chatId string) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatId).Delete(&model.Document{}).Error
}

type SuggestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewSuggestionRepository(db *gorm.DB) contract.SuggestionRepository {
	return &SuggestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *SuggestionRepositoryImpl) CreateBatch(ctx context.Context, suggestions []*entity.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]*model.Suggestion, len(suggestions))
	for i, s := range suggestions {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		models[i] = r.mapper.SuggestionToModel(s)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *SuggestionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Suggestion, error) {
	var models []*model.Suggestion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Suggestion, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SuggestionToEntity(m)
	}
	return entities, nil
}

func (r *SuggestionRepositoryImpl) DeleteByDocumentIds(ctx context.Context, documentIds []string) error {
	if len(documentIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("document_id IN ?", documentIds).Delete(&model.Suggestion{}).Error
}
