// Package testdb provides a migrated in-memory database for package tests.
package testdb

import (
	"fmt"
	"testing"

	"github.com/YohanReddy/ai-chatbot/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a private in-memory SQLite database with all tables migrated.
// A single connection is used so every query sees the same memory database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
