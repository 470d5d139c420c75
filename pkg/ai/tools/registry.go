// Package tools holds the server-side tools the model may call during a turn.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	"github.com/go-playground/validator/v10"
)

const (
	GetWeather         = "getWeather"
	CreateDocument     = "createDocument"
	UpdateDocument     = "updateDocument"
	RequestSuggestions = "requestSuggestions"
)

var ErrUnknownTool = errors.New("unknown tool")

// ExecutorFunc defines a server-side tool executor.
type ExecutorFunc func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

type Tool struct {
	Definition llm.ToolDefinition
	Execute    ExecutorFunc
}

// Registry stores the tools available to one turn, keyed by name.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) error {
	name := t.Definition.Name
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Execute == nil {
		return fmt.Errorf("executor is required")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Definitions returns the definitions of the named tools in registration order.
// Unknown names are ignored.
func (r *Registry) Definitions(names []string) []llm.ToolDefinition {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var defs []llm.ToolDefinition
	for _, name := range r.order {
		if wanted[name] {
			defs = append(defs, r.tools[name].Definition)
		}
	}
	return defs
}

func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Execute(ctx, args)
}

// ActiveTools returns the tools exposed for the selected chat model.
// The reasoning model gets none.
func ActiveTools(selectedChatModel string) []string {
	if selectedChatModel == constant.ChatModelReasoning {
		return nil
	}
	return []string{GetWeather, CreateDocument, UpdateDocument, RequestSuggestions}
}

var validate = validator.New()

// decodeArgs unmarshals and validates tool arguments.
func decodeArgs(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func encodeResult(v interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return b, nil
}

// ErrorResult is what the model and client see when a tool fails.
func ErrorResult(err error) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return b
}
