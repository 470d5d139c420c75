package mapper

import (
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) DocumentToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:        d.Id,
		CreatedAt: d.CreatedAt,
		Title:     d.Title,
		Kind:      d.Kind,
		Content:   d.Content,
		UserId:    d.UserId,
		ChatId:    d.ChatId,
	}
}

func (m *DocumentMapper) DocumentToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:        d.Id,
		CreatedAt: d.CreatedAt.UTC(),
		Title:     d.Title,
		Kind:      d.Kind,
		Content:   d.Content,
		UserId:    d.UserId,
		ChatId:    d.ChatId,
	}
}

func (m *DocumentMapper) DocumentsToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.DocumentToEntity(d)
	}
	return entities
}

func (m *DocumentMapper) SuggestionToEntity(s *model.Suggestion) *entity.Suggestion {
	if s == nil {
		return nil
	}

	return &entity.Suggestion{
		Id:                s.Id,
		DocumentId:        s.DocumentId,
		DocumentCreatedAt: s.DocumentCreatedAt,
		OriginalText:      s.OriginalText,
		SuggestedText:     s.SuggestedText,
		Description:       s.Description,
		IsResolved:        s.IsResolved,
		UserId:            s.UserId,
		CreatedAt:         s.CreatedAt,
	}
}

func (m *DocumentMapper) SuggestionToModel(s *entity.Suggestion) *model.Suggestion {
	if s == nil {
		return nil
	}

	return &model.Suggestion{
		Id:                s.Id,
		DocumentId:        s.DocumentId,
		DocumentCreatedAt: s.DocumentCreatedAt.UTC(),
		OriginalText:      s.OriginalText,
		SuggestedText:     s.SuggestedText,
		Description:       s.Description,
		IsResolved:        s.IsResolved,
		UserId:            s.UserId,
		CreatedAt:         s.CreatedAt.UTC(),
	}
}
