package dto

import (
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
)

type DocumentResponse struct {
	Id        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	UserId    string    `json:"userId"`
	ChatId    *string   `json:"chatId"`
}

type SuggestionResponse struct {
	Id                string    `json:"id"`
	DocumentId        string    `json:"documentId"`
	DocumentCreatedAt time.Time `json:"documentCreatedAt"`
	OriginalText      string    `json:"originalText"`
	SuggestedText     string    `json:"suggestedText"`
	Description       string    `json:"description"`
	IsResolved        bool      `json:"isResolved"`
	UserId            string    `json:"userId"`
	CreatedAt         time.Time `json:"createdAt"`
}

func NewDocumentResponse(d *entity.Document) *DocumentResponse {
	return &DocumentResponse{
		Id:        d.Id,
		CreatedAt: d.CreatedAt,
		Title:     d.Title,
		Kind:      d.Kind,
		Content:   d.Content,
		UserId:    d.UserId,
		ChatId:    d.ChatId,
	}
}

func NewSuggestionResponse(s *entity.Suggestion) *SuggestionResponse {
	return &SuggestionResponse{
		Id:                s.Id,
		DocumentId:        s.DocumentId,
		DocumentCreatedAt: s.DocumentCreatedAt,
		OriginalText:      s.OriginalText,
		SuggestedText:     s.SuggestedText,
		Description:       s.Description,
		IsResolved:        s.IsResolved,
		UserId:            s.UserId,
		CreatedAt:         s.CreatedAt,
	}
}
