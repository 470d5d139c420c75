package unitofwork

import (
	"context"

	"github.com/YohanReddy/ai-chatbot/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatRepository() contract.ChatRepository
	MessageRepository() contract.MessageRepository
	DocumentRepository() contract.DocumentRepository
	SuggestionRepository() contract.SuggestionRepository
}
