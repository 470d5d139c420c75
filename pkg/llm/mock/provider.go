// Package mock provides a scripted LLM backend for tests and offline development.
package mock

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"
)

// Provider replays scripted streams in order. When the script runs out it
// echoes the last user message back.
type Provider struct {
	mu        sync.Mutex
	steps     [][]llm.StreamChunk
	responses []string
	images    []string

	// StreamErr, when set, is returned by every Stream call after its chunks are delivered.
	StreamErr error

	Calls []Call
}

// Call records what the provider was asked.
type Call struct {
	History []llm.Message
	Options llm.Options
}

var (
	_ llm.LLMProvider    = &Provider{}
	_ llm.ImageGenerator = &Provider{}
)

func NewProvider() *Provider {
	return &Provider{}
}

// WithStep appends the chunks of one streamed model step.
func (p *Provider) WithStep(chunks ...llm.StreamChunk) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, chunks)
	return p
}

// WithResponse appends a reply for Chat/Generate.
func (p *Provider) WithResponse(text string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, text)
	return p
}

func (p *Provider) WithImage(b64 string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images = append(p.images, b64)
	return p
}

// CallCount returns how many requests were made.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}

func (p *Provider) record(history []llm.Message, opts []llm.Option) {
	p.Calls = append(p.Calls, Call{
		History: append([]llm.Message(nil), history...),
		Options: llm.ApplyOptions(llm.Options{}, opts...),
	})
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(history, opts)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(p.responses) > 0 {
		r := p.responses[0]
		p.responses = p.responses[1:]
		return r, nil
	}
	return echo(history), nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *Provider) Stream(ctx context.Context, history []llm.Message, handler llm.StreamHandler, opts ...llm.Option) error {
	p.mu.Lock()
	p.record(history, opts)
	var chunks []llm.StreamChunk
	if len(p.steps) > 0 {
		chunks = p.steps[0]
		p.steps = p.steps[1:]
	} else {
		chunks = TextStep(echo(history))
	}
	streamErr := p.StreamErr
	p.mu.Unlock()

	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := handler(c); err != nil {
			return err
		}
	}
	return streamErr
}

func (p *Provider) GenerateImage(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.images) > 0 {
		img := p.images[0]
		p.images = p.images[1:]
		return img, nil
	}
	return "bW9jaw==", nil
}

func echo(history []llm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == llm.RoleUser {
			return "[MOCK] " + history[i].Content
		}
	}
	return "[MOCK] Hello"
}

// TextStep builds a step that streams text word by word and stops.
func TextStep(text string) []llm.StreamChunk {
	var chunks []llm.StreamChunk
	for _, w := range strings.SplitAfter(text, " ") {
		if w != "" {
			chunks = append(chunks, llm.StreamChunk{Type: llm.ChunkText, Text: w})
		}
	}
	return append(chunks, llm.StreamChunk{Type: llm.ChunkFinish, FinishReason: llm.FinishStop})
}

// ToolStep builds a step that requests one tool call.
func ToolStep(id, name string, args interface{}) []llm.StreamChunk {
	raw, _ := json.Marshal(args)
	return []llm.StreamChunk{
		{Type: llm.ChunkToolCall, ToolCall: &llm.ToolCall{Id: id, Name: name, Arguments: raw}},
		{Type: llm.ChunkFinish, FinishReason: llm.FinishToolCalls},
	}
}
