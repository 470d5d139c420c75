package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sse(w http.ResponseWriter, events ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	for _, e := range events {
		fmt.Fprintf(w, "data: %s\n\n", e)
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func TestOpenAIProvider_StreamAccumulatesToolCalls(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sse(w,
			`{"id":"1","choices":[{"index":0,"delta":{"role":"assistant","content":"Let me "}}]}`,
			`{"id":"1","choices":[{"index":0,"delta":{"content":"check."}}]}`,
			`{"id":"1","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"getWeather","arguments":"{\"latitude\":"}}]}}]}`,
			`{"id":"1","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"1,\"longitude\":2}"}}]}}]}`,
			`{"id":"1","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`,
			`{"id":"1","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`,
		)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("key", srv.URL, "gpt-4o-mini")
	var chunks []llm.StreamChunk
	err := p.Stream(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "weather in Paris?"}},
		func(c llm.StreamChunk) error {
			chunks = append(chunks, c)
			return nil
		},
		llm.WithTools([]llm.ToolDefinition{{Name: "getWeather", Parameters: json.RawMessage(`{"type":"object"}`)}}),
	)
	require.NoError(t, err)

	assert.Equal(t, true, body["stream"])
	assert.Len(t, body["tools"], 1)

	require.Len(t, chunks, 4)
	assert.Equal(t, "Let me ", chunks[0].Text)
	assert.Equal(t, "check.", chunks[1].Text)
	assert.Equal(t, llm.ChunkToolCall, chunks[2].Type)
	assert.Equal(t, "call_1", chunks[2].ToolCall.Id)
	assert.JSONEq(t, `{"latitude":1,"longitude":2}`, string(chunks[2].ToolCall.Arguments))
	assert.Equal(t, llm.ChunkFinish, chunks[3].Type)
	assert.Equal(t, llm.FinishToolCalls, chunks[3].FinishReason)
	assert.Equal(t, llm.Usage{PromptTokens: 5, CompletionTokens: 3}, chunks[3].Usage)
}

func TestOpenAIProvider_HandlerErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sse(w, `{"id":"1","choices":[{"index":0,"delta":{"content":"a"}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("key", srv.URL, "m")
	err := p.Stream(context.Background(), nil, func(llm.StreamChunk) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}

func TestOpenAIProvider_GenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		fmt.Fprint(w, `{"created":1,"data":[{"b64_json":"aW1n"}]}`)
	}))
	defer srv.Close()

	img, err := NewOpenAIProvider("key", srv.URL, "m").GenerateImage(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "aW1n", img)
}
