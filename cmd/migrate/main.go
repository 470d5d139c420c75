package main

import (
	"log"
	"os"

	"github.com/YohanReddy/ai-chatbot/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate chats, messages, documents and suggestions
	log.Printf("Running AutoMigrate for %d tables...", len(database.Models()))
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: indexes GORM tags cannot express
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages (chat_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_chats_user_created ON chats (user_id, created_at DESC);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed successfully via GORM.")
}
