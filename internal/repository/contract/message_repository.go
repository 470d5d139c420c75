package contract

import (
	"context"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"
)

type MessageRepository interface {
	// CreateBatch inserts all messages or none.
	CreateBatch(ctx context.Context, messages []*entity.Message) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	// CountByUserSince counts messages of the given role in chats owned by userId.
	CountByUserSince(ctx context.Context, userId string, role string, since time.Time) (int64, error)
	DeleteByChatId(ctx context.Context, chatId string) error
}
