package contract

import (
	"context"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	UpdateVisibility(ctx context.Context, id string, visibility string) error
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error)
}
