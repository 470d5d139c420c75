package database

import (
	"github.com/YohanReddy/ai-chatbot/internal/model"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Chat{},
		&model.Message{},
		&model.Document{},
		&model.Suggestion{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
