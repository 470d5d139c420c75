package artifact

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []datastream.DataEvent
}

func (s *recordingSink) WriteData(e datastream.DataEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

type fakeSaver struct {
	saved []*entity.Document
	err   error
}

func (f *fakeSaver) SaveDocument(_ context.Context, doc *entity.Document) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, doc)
	return nil
}

func newDispatcher(provider *mock.Provider, saver DocumentSaver) *Dispatcher {
	gen := Generator{Provider: provider, Model: "artifact"}
	return NewDispatcher(saver, logger.NewNopLogger(),
		NewTextHandler(gen),
		NewCodeHandler(gen),
		NewSheetHandler(gen),
		NewImageHandler(provider, "img"),
	)
}

func TestDispatcher_CreateTextPersistsRevision(t *testing.T) {
	provider := mock.NewProvider().WithStep(mock.TextStep("Hello world")...)
	saver := &fakeSaver{}
	sink := &recordingSink{}

	content, err := newDispatcher(provider, saver).Create(context.Background(),
		&entity.Principal{Id: "u1"}, "c1", KindText,
		CreateParams{Id: "d1", Title: "Greeting", Sink: sink})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", content)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "u1", saver.saved[0].UserId)
	assert.Equal(t, "c1", *saver.saved[0].ChatId)
	assert.Equal(t, KindText, saver.saved[0].Kind)

	require.Len(t, sink.events, 2)
	assert.Equal(t, datastream.DataEvent{Type: "text-delta", Content: "Hello "}, sink.events[0])
}

func TestDispatcher_SkipsSaveWithoutPrincipal(t *testing.T) {
	provider := mock.NewProvider().WithStep(mock.TextStep("draft")...)
	saver := &fakeSaver{}

	content, err := newDispatcher(provider, saver).Create(context.Background(),
		&entity.Principal{}, "", KindText, CreateParams{Id: "d1", Title: "t", Sink: &recordingSink{}})
	require.NoError(t, err)
	assert.Equal(t, "draft", content)
	assert.Empty(t, saver.saved)
}

func TestDispatcher_UnknownKind(t *testing.T) {
	_, err := newDispatcher(mock.NewProvider(), &fakeSaver{}).Create(context.Background(),
		&entity.Principal{Id: "u1"}, "", "video", CreateParams{Id: "d1", Sink: &recordingSink{}})
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestDispatcher_SaveFailureSurfaces(t *testing.T) {
	provider := mock.NewProvider().WithStep(mock.TextStep("x")...)
	_, err := newDispatcher(provider, &fakeSaver{err: errors.New("db down")}).Create(context.Background(),
		&entity.Principal{Id: "u1"}, "", KindText, CreateParams{Id: "d1", Sink: &recordingSink{}})
	assert.ErrorContains(t, err, "db down")
}

func TestDispatcher_UpdateCodeStripsFence(t *testing.T) {
	provider := mock.NewProvider().WithStep(mock.TextStep("```python\nprint(2)\n```")...)
	saver := &fakeSaver{}
	sink := &recordingSink{}
	chatId := "c1"

	content, err := newDispatcher(provider, saver).Update(context.Background(), &entity.Principal{Id: "u1"}, UpdateParams{
		Document:    &entity.Document{Id: "d1", Title: "Snippet", Kind: KindCode, Content: "print(1)", ChatId: &chatId},
		Description: "print two",
		Sink:        sink,
	})
	require.NoError(t, err)

	assert.Equal(t, "print(2)", content)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "d1", saver.saved[0].Id)
	assert.Equal(t, &chatId, saver.saved[0].ChatId)

	last := sink.events[len(sink.events)-1]
	assert.Equal(t, "code-delta", last.Type)
	assert.Equal(t, "print(2)", last.Content)

	// The current revision is part of the prompt.
	require.Equal(t, 1, provider.CallCount())
	assert.Contains(t, provider.Calls[0].History[0].Content, "print(1)")
}

func TestDispatcher_ImageAndSheet(t *testing.T) {
	provider := mock.NewProvider().
		WithImage("aW1n").
		WithStep(mock.TextStep("a,b\n1")...)
	d := newDispatcher(provider, &fakeSaver{})

	img, err := d.Create(context.Background(), &entity.Principal{Id: "u1"}, "", KindImage,
		CreateParams{Id: "d1", Title: "cat", Sink: &recordingSink{}})
	require.NoError(t, err)
	assert.Equal(t, "aW1n", img)

	sheet, err := d.Create(context.Background(), &entity.Principal{Id: "u1"}, "", KindSheet,
		CreateParams{Id: "d2", Title: "numbers", Sink: &recordingSink{}})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,", sheet)
}

func TestNormalizeCSV(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name, age\nbob, 3", "name,age\nbob,3"},
		{"a,b,c\n1", "a,b,c\n1,,"},
		{`x,"unterminated`, `x,"unterminated`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeCSV(tt.in), tt.in)
	}
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, "print(1)", stripFence("```python\nprint(1)\n```"))
	assert.Equal(t, "plain", stripFence("plain"))
	assert.Equal(t, "```", stripFence("```"))
}
