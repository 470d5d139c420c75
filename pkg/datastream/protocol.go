// Package datastream encodes chat output in the AI SDK data stream protocol:
// one "<code>:<json>\n" line per part.
package datastream

import (
	"encoding/json"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"
)

const (
	HeaderName    = "X-Vercel-AI-Data-Stream"
	HeaderVersion = "v1"
	ContentType   = "text/plain; charset=utf-8"
)

const (
	CodeText          = '0'
	CodeData          = '2'
	CodeError         = '3'
	CodeToolCall      = '9'
	CodeToolResult    = 'a'
	CodeFinishMessage = 'd'
	CodeFinishStep    = 'e'
	CodeStartStep     = 'f'
	CodeReasoning     = 'g'
)

type startStep struct {
	MessageId string `json:"messageId"`
}

type toolCall struct {
	ToolCallId string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Args       json.RawMessage `json:"args"`
}

type toolResult struct {
	ToolCallId string          `json:"toolCallId"`
	Result     json.RawMessage `json:"result"`
}

type finishStep struct {
	FinishReason string    `json:"finishReason"`
	Usage        llm.Usage `json:"usage"`
	IsContinued  bool      `json:"isContinued"`
}

type finishMessage struct {
	FinishReason string    `json:"finishReason"`
	Usage        llm.Usage `json:"usage"`
}

// DataEvent is the payload of a side-channel data part.
type DataEvent struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

func encode(code byte, value interface{}) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %c part: %w", code, err)
	}
	frame := make([]byte, 0, len(payload)+3)
	frame = append(frame, code, ':')
	frame = append(frame, payload...)
	return append(frame, '\n'), nil
}

func rawOrNull(v json.RawMessage) json.RawMessage {
	if len(v) == 0 {
		return json.RawMessage("null")
	}
	return v
}

func TextFrame(text string) ([]byte, error)      { return encode(CodeText, text) }
func ReasoningFrame(text string) ([]byte, error) { return encode(CodeReasoning, text) }
func ErrorFrame(message string) ([]byte, error)  { return encode(CodeError, message) }

func DataFrame(values ...interface{}) ([]byte, error) {
	return encode(CodeData, values)
}

func StartStepFrame(messageId string) ([]byte, error) {
	return encode(CodeStartStep, startStep{MessageId: messageId})
}

func ToolCallFrame(id, name string, args json.RawMessage) ([]byte, error) {
	return encode(CodeToolCall, toolCall{ToolCallId: id, ToolName: name, Args: rawOrNull(args)})
}

func ToolResultFrame(id string, result json.RawMessage) ([]byte, error) {
	return encode(CodeToolResult, toolResult{ToolCallId: id, Result: rawOrNull(result)})
}

func FinishStepFrame(reason string, usage llm.Usage, isContinued bool) ([]byte, error) {
	return encode(CodeFinishStep, finishStep{FinishReason: reason, Usage: usage, IsContinued: isContinued})
}

func FinishMessageFrame(reason string, usage llm.Usage) ([]byte, error) {
	return encode(CodeFinishMessage, finishMessage{FinishReason: reason, Usage: usage})
}
