package dto

import (
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
)

type PostChatRequest struct {
	Id                     string             `json:"id" validate:"required,uuid"`
	Message                ChatMessageRequest `json:"message"`
	SelectedChatModel      string             `json:"selectedChatModel" validate:"required,oneof=chat-model chat-model-reasoning"`
	SelectedVisibilityType string             `json:"selectedVisibilityType" validate:"required,oneof=public private"`
}

type ChatMessageRequest struct {
	Id        string               `json:"id" validate:"required,uuid"`
	CreatedAt *time.Time           `json:"createdAt"`
	Role      string               `json:"role" validate:"required,eq=user"`
	Content   string               `json:"content" validate:"max=2000"`
	Parts     []MessagePartRequest `json:"parts" validate:"required,min=1,dive"`

	Attachments []entity.Attachment `json:"attachments" validate:"omitempty,dive"`
	// Older clients send attachments under this name.
	ExperimentalAttachments []entity.Attachment `json:"experimental_attachments" validate:"omitempty,dive"`
}

type MessagePartRequest struct {
	Type string `json:"type" validate:"required,eq=text"`
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// AllAttachments returns the attachments under either field name, never nil.
func (m ChatMessageRequest) AllAttachments() []entity.Attachment {
	out := make([]entity.Attachment, 0, len(m.Attachments)+len(m.ExperimentalAttachments))
	out = append(out, m.Attachments...)
	return append(out, m.ExperimentalAttachments...)
}

type ChatResponse struct {
	Id         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Title      string    `json:"title"`
	UserId     string    `json:"userId"`
	Visibility string    `json:"visibility"`
}

type MessageResponse struct {
	Id          string               `json:"id"`
	ChatId      string               `json:"chatId"`
	Role        string               `json:"role"`
	Parts       []entity.MessagePart `json:"parts"`
	Attachments []entity.Attachment  `json:"attachments"`
	CreatedAt   time.Time            `json:"createdAt"`
}

type ChatDetailResponse struct {
	Chat       ChatResponse       `json:"chat"`
	Messages   []*MessageResponse `json:"messages"`
	IsReadonly bool               `json:"isReadonly"`
}

type ChatHistoryRequest struct {
	Limit         int
	StartingAfter string
	EndingBefore  string
}

type ChatHistoryResponse struct {
	Chats   []*ChatResponse `json:"chats"`
	HasMore bool            `json:"hasMore"`
}

type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=public private"`
}

func NewChatResponse(c *entity.Chat) *ChatResponse {
	return &ChatResponse{
		Id:         c.Id,
		CreatedAt:  c.CreatedAt,
		Title:      c.Title,
		UserId:     c.UserId,
		Visibility: c.Visibility,
	}
}

func NewMessageResponse(m *entity.Message) *MessageResponse {
	parts := m.Parts
	if parts == nil {
		parts = []entity.MessagePart{}
	}
	attachments := m.Attachments
	if attachments == nil {
		attachments = []entity.Attachment{}
	}
	return &MessageResponse{
		Id:          m.Id,
		ChatId:      m.ChatId,
		Role:        m.Role,
		Parts:       parts,
		Attachments: attachments,
		CreatedAt:   m.CreatedAt,
	}
}

// AssistantMessagePayload is the reconciliation message carried on the
// in-process assistant message topic.
type AssistantMessagePayload struct {
	Id          string               `json:"id"`
	ChatId      string               `json:"chatId"`
	Role        string               `json:"role"`
	Parts       []entity.MessagePart `json:"parts"`
	Attachments []entity.Attachment  `json:"attachments"`
}
