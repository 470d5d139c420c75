package model

import "time"

type Document struct {
	Id        string    `gorm:"type:varchar(191);primaryKey"`
	CreatedAt time.Time `gorm:"primaryKey;autoCreateTime:false"`
	Title     string    `gorm:"type:text;not null"`
	Kind      string    `gorm:"type:varchar(16);not null;default:text"`
	Content   string    `gorm:"type:text"`
	UserId    string    `gorm:"type:varchar(191);not null;index"`
	ChatId    *string   `gorm:"type:varchar(191);index"`
}

func (Document) TableName() string {
	return "documents"
}

type Suggestion struct {
	Id                string    `gorm:"type:varchar(191);primaryKey"`
	DocumentId        string    `gorm:"type:varchar(191);not null;index"`
	DocumentCreatedAt time.Time `gorm:"not null"`
	OriginalText      string    `gorm:"type:text;not null"`
	SuggestedText     string    `gorm:"type:text;not null"`
	Description       string    `gorm:"type:text"`
	IsResolved        bool      `gorm:"not null;default:false"`
	UserId            string    `gorm:"type:varchar(191);not null;index"`
	CreatedAt         time.Time `gorm:"not null"`
}

func (Suggestion) TableName() string {
	return "suggestions"
}
