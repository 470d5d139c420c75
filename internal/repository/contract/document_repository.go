package contract

import (
	"context"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"
)

type DocumentRepository interface {
	// Create stores a new revision.
	Create(ctx context.Context, doc *entity.Document) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	FindLatest(ctx context.Context, id string) (*entity.Document, error)
	FindIdsByChatId(ctx context.Context, chatId string) ([]string, error)
	DeleteByChatId(ctx context.Context, chatId string) error
}

type SuggestionRepository interface {
	CreateBatch(ctx context.Context, suggestions []*entity.Suggestion) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Suggestion, error)
	DeleteByDocumentIds(ctx context.Context, documentIds []string) error
}
