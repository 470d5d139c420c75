package entity

import (
	"encoding/json"
	"time"
)

type Message struct {
	Id          string
	ChatId      string
	Role        string
	Parts       []MessagePart
	Attachments []Attachment
	CreatedAt   time.Time
}

const (
	PartTypeText           = "text"
	PartTypeReasoning      = "reasoning"
	PartTypeToolInvocation = "tool-invocation"
	PartTypeStepStart      = "step-start"

	ToolStateCall   = "call"
	ToolStateResult = "result"
)

// MessagePart is one element of a message's ordered content.
type MessagePart struct {
	Type           string          `json:"type"`
	Text           string          `json:"text,omitempty"`
	Reasoning      string          `json:"reasoning,omitempty"`
	ToolInvocation *ToolInvocation `json:"toolInvocation,omitempty"`
}

type ToolInvocation struct {
	State      string          `json:"state"`
	Step       int             `json:"step"`
	ToolCallId string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Args       json.RawMessage `json:"args"`
	Result     json.RawMessage `json:"result,omitempty"`
}

type Attachment struct {
	Url         string `json:"url" validate:"required,url"`
	Name        string `json:"name" validate:"required,max=2000"`
	ContentType string `json:"contentType" validate:"required,oneof=image/png image/jpg image/jpeg"`
}

// Text concatenates the text parts of the message.
func (m *Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			out += p.Text
		}
	}
	return out
}

// HasOutput reports whether the message carries anything besides step markers.
func (m *Message) HasOutput() bool {
	for _, p := range m.Parts {
		switch p.Type {
		case PartTypeText, PartTypeReasoning, PartTypeToolInvocation:
			return true
		}
	}
	return false
}
