package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByChatID struct {
	ChatID string
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

type UserOwnedBy struct {
	UserID string
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// CreatedAfter keeps rows strictly newer than Time.
type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.Time.UTC())
}

// CreatedBefore keeps rows strictly older than Time.
type CreatedBefore struct {
	Time time.Time
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.Time.UTC())
}

// Chronological orders messages oldest first. CreateBatch keeps timestamps distinct
// within a batch; ids only settle exact ties, which carry no insertion order.
type Chronological struct{}

func (s Chronological) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
