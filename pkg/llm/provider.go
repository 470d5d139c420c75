package llm

import (
	"context"
	"encoding/json"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string

	// ToolCalls are the calls an assistant message requested.
	ToolCalls []ToolCall
	// ToolCallId and ToolName link a "tool" message to the call it answers.
	ToolCallId string
	ToolName   string
}

type ToolCall struct {
	Id        string
	Name      string
	Arguments json.RawMessage
}

// ToolDefinition describes a callable tool; Parameters is a JSON schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	Tools       []ToolDefinition
	Reasoning   bool // ask the backend to expose its thinking
	Size        string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithTools(tools []ToolDefinition) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

func WithReasoning() Option {
	return func(o *Options) {
		o.Reasoning = true
	}
}

func WithImageSize(size string) Option {
	return func(o *Options) {
		o.Size = size
	}
}

func ApplyOptions(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

type ChunkType string

const (
	ChunkText      ChunkType = "text"
	ChunkReasoning ChunkType = "reasoning"
	ChunkToolCall  ChunkType = "tool-call"
	ChunkFinish    ChunkType = "finish"
)

const (
	FinishStop      = "stop"
	FinishLength    = "length"
	FinishToolCalls = "tool-calls"
	FinishError     = "error"
	FinishUnknown   = "unknown"
)

type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
	}
}

// StreamChunk is one event of a streamed completion. A stream ends with
// exactly one ChunkFinish.
type StreamChunk struct {
	Type         ChunkType
	Text         string
	ToolCall     *ToolCall
	FinishReason string
	Usage        Usage
}

// StreamHandler receives chunks in order. Returning an error aborts the stream.
type StreamHandler func(chunk StreamChunk) error

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Stream sends a chat history and delivers the response incrementally.
	Stream(ctx context.Context, history []Message, handler StreamHandler, options ...Option) error
}

// ImageGenerator produces a base64 encoded image for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, options ...Option) (string, error)
}
