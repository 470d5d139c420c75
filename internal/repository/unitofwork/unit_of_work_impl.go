package unitofwork

import (
	"context"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/internal/repository/contract"
	"github.com/YohanReddy/ai-chatbot/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // non-nil while a transaction is open
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is a no-op once the transaction was committed, so it is safe to defer.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) ChatRepository() contract.ChatRepository {
	return implementation.NewChatRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MessageRepository() contract.MessageRepository {
	return implementation.NewMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DocumentRepository() contract.DocumentRepository {
	return implementation.NewDocumentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SuggestionRepository() contract.SuggestionRepository {
	return implementation.NewSuggestionRepository(u.getDB())
}
