package datastream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame func() ([]byte, error)
		want  string
	}{
		{"text", func() ([]byte, error) { return TextFrame("Hel\"lo") }, `0:"Hel\"lo"` + "\n"},
		{"reasoning", func() ([]byte, error) { return ReasoningFrame("hmm") }, `g:"hmm"` + "\n"},
		{"error", func() ([]byte, error) { return ErrorFrame("Oops, an error occurred!") }, `3:"Oops, an error occurred!"` + "\n"},
		{"start step", func() ([]byte, error) { return StartStepFrame("m1") }, `f:{"messageId":"m1"}` + "\n"},
		{"data", func() ([]byte, error) { return DataFrame(DataEvent{Type: "kind", Content: "text"}) }, `2:[{"type":"kind","content":"text"}]` + "\n"},
		{"tool call", func() ([]byte, error) {
			return ToolCallFrame("t1", "getWeather", json.RawMessage(`{"latitude":1}`))
		}, `9:{"toolCallId":"t1","toolName":"getWeather","args":{"latitude":1}}` + "\n"},
		{"tool result", func() ([]byte, error) { return ToolResultFrame("t1", nil) }, `a:{"toolCallId":"t1","result":null}` + "\n"},
		{"finish step", func() ([]byte, error) {
			return FinishStepFrame(llm.FinishStop, llm.Usage{PromptTokens: 1, CompletionTokens: 2}, false)
		}, `e:{"finishReason":"stop","usage":{"promptTokens":1,"completionTokens":2},"isContinued":false}` + "\n"},
		{"finish message", func() ([]byte, error) { return FinishMessageFrame(llm.FinishStop, llm.Usage{}) },
			`d:{"finishReason":"stop","usage":{"promptTokens":0,"completionTokens":0}}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.frame()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestStream_PreservesOrder(t *testing.T) {
	s := New(nil, 4)
	var buf bytes.Buffer

	go func() {
		defer s.Close()
		_ = s.WriteStartStep("m1")
		for i := 0; i < 50; i++ {
			_ = s.WriteText("x")
			_ = s.WriteData(DataEvent{Type: "text-delta", Content: "y"})
		}
		_ = s.WriteFinishMessage(llm.FinishStop, llm.Usage{})
	}()

	require.NoError(t, s.Pump(bufio.NewWriter(&buf)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 102)
	assert.True(t, strings.HasPrefix(lines[0], "f:"))
	for i := 1; i <= 100; i++ {
		if i%2 == 1 {
			assert.Equal(t, `0:"x"`, lines[i])
		} else {
			assert.Equal(t, `2:[{"type":"text-delta","content":"y"}]`, lines[i])
		}
	}
	assert.True(t, strings.HasPrefix(lines[101], "d:"))
}

type failingWriter struct {
	mu     sync.Mutex
	writes int
	after  int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	if w.writes > w.after {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func TestStream_ClientDisconnectCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(cancel, 0)

	produced := make(chan error, 1)
	go func() {
		defer s.Close()
		for {
			if err := s.WriteText("chunk"); err != nil {
				produced <- err
				return
			}
		}
	}()

	// bufio with size 16 forces a flush to the failing writer on every frame.
	err := s.Pump(bufio.NewWriterSize(&failingWriter{after: 3}, 16))
	require.Error(t, err)

	assert.ErrorIs(t, <-produced, ErrClosed)
	assert.Error(t, ctx.Err(), "generation context must be cancelled")
	assert.EqualError(t, s.Err(), "broken pipe")
}
