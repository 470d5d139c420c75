package model

import (
	"time"

	"gorm.io/datatypes"
)

type Chat struct {
	Id         string    `gorm:"type:varchar(191);primaryKey"`
	UserId     string    `gorm:"type:varchar(191);not null;index"`
	Title      string    `gorm:"type:text;not null"`
	Visibility string    `gorm:"type:varchar(16);not null;default:private"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (Chat) TableName() string {
	return "chats"
}

type Message struct {
	Id          string         `gorm:"type:varchar(191);primaryKey"`
	ChatId      string         `gorm:"type:varchar(191);not null;index"`
	Role        string         `gorm:"type:varchar(16);not null"`
	Parts       datatypes.JSON `gorm:"not null"`
	Attachments datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null;index"`
}

func (Message) TableName() string {
	return "messages"
}
