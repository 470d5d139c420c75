package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/ai/tools"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingReconciler struct {
	mu       sync.Mutex
	messages []*entity.Message
	err      error
}

func (r *recordingReconciler) PublishAssistantMessage(_ context.Context, msg *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.err
}

var testModels = llm.ModelCatalog{
	constant.ChatModelDefault:   "chat-llm",
	constant.ChatModelReasoning: "reasoning-llm",
}

func newTestOrchestrator(provider llm.LLMProvider, weatherURL string, rec Reconciler) *Orchestrator {
	o := NewOrchestrator(provider, testModels, tools.Deps{
		Weather: tools.NewWeatherClient(weatherURL),
		Logger:  logger.NewNopLogger(),
	}, rec, logger.NewNopLogger(), Config{})
	o.newId = func() string { return "a1" }
	return o
}

func newTurn(model string) Turn {
	return Turn{
		Chat:      &entity.Chat{Id: "c1", UserId: "u1"},
		Principal: &entity.Principal{Id: "u1", Type: constant.UserTypeRegular},
		Messages: []*entity.Message{{
			Id: "m1", ChatId: "c1", Role: constant.MessageRoleUser,
			Parts: []entity.MessagePart{{Type: entity.PartTypeText, Text: "hello"}},
		}},
		SelectedChatModel: model,
	}
}

func run(o *Orchestrator, turn Turn) []string {
	var buf bytes.Buffer
	o.Run(turn, bufio.NewWriter(&buf))
	o.Wait()
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func prefixes(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l[:strings.Index(l, ":")]
	}
	return out
}

func TestOrchestrator_TextTurn(t *testing.T) {
	provider := mock.NewProvider().WithStep(
		llm.StreamChunk{Type: llm.ChunkText, Text: "Hel"},
		llm.StreamChunk{Type: llm.ChunkText, Text: "lo wor"},
		llm.StreamChunk{Type: llm.ChunkText, Text: "ld"},
		llm.StreamChunk{Type: llm.ChunkFinish, FinishReason: llm.FinishStop, Usage: llm.Usage{PromptTokens: 3, CompletionTokens: 2}},
	)
	rec := &recordingReconciler{}

	lines := run(newTestOrchestrator(provider, "", rec), newTurn(constant.ChatModelDefault))

	assert.Equal(t, []string{
		`f:{"messageId":"a1"}`,
		`0:"Hello "`,
		`0:"world"`,
		`e:{"finishReason":"stop","usage":{"promptTokens":3,"completionTokens":2},"isContinued":false}`,
		`d:{"finishReason":"stop","usage":{"promptTokens":3,"completionTokens":2}}`,
	}, lines)

	require.Len(t, rec.messages, 1)
	reply := rec.messages[0]
	assert.Equal(t, "a1", reply.Id)
	assert.Equal(t, "c1", reply.ChatId)
	assert.Equal(t, constant.MessageRoleAssistant, reply.Role)
	assert.Equal(t, []entity.MessagePart{
		{Type: entity.PartTypeStepStart},
		{Type: entity.PartTypeText, Text: "Hello world"},
	}, reply.Parts)
	assert.NotNil(t, reply.Attachments)

	call := provider.Calls[0]
	assert.Equal(t, "chat-llm", call.Options.Model)
	assert.Len(t, call.Options.Tools, 4)
	assert.Equal(t, llm.RoleSystem, call.History[0].Role)
	assert.Contains(t, call.History[0].Content, constant.ArtifactsPrompt)
	assert.Equal(t, "hello", call.History[1].Content)
}

func TestOrchestrator_ToolLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":20}}`))
	}))
	defer srv.Close()

	provider := mock.NewProvider().
		WithStep(mock.ToolStep("t1", tools.GetWeather, map[string]float64{"latitude": 52.5, "longitude": 13.4})...).
		WithStep(mock.TextStep("Twenty degrees.")...)
	rec := &recordingReconciler{}

	lines := run(newTestOrchestrator(provider, srv.URL, rec), newTurn(constant.ChatModelDefault))

	assert.Equal(t, []string{"f", "9", "a", "e", "f", "0", "0", "e", "d"}, prefixes(lines))
	assert.Equal(t, `9:{"toolCallId":"t1","toolName":"getWeather","args":{"latitude":52.5,"longitude":13.4}}`, lines[1])
	assert.Equal(t, `a:{"toolCallId":"t1","result":{"current":{"temperature_2m":20}}}`, lines[2])
	assert.Contains(t, lines[3], `"finishReason":"tool-calls"`)

	require.Equal(t, 2, provider.CallCount())
	second := provider.Calls[1].History
	require.Len(t, second, 4)
	assert.Equal(t, llm.RoleAssistant, second[2].Role)
	assert.Equal(t, "t1", second[2].ToolCalls[0].Id)
	assert.Equal(t, llm.Message{Role: llm.RoleTool, Content: `{"current":{"temperature_2m":20}}`, ToolCallId: "t1", ToolName: tools.GetWeather}, second[3])

	require.Len(t, rec.messages, 1)
	parts := rec.messages[0].Parts
	require.Len(t, parts, 4)
	assert.Equal(t, entity.PartTypeStepStart, parts[0].Type)
	assert.Equal(t, entity.PartTypeToolInvocation, parts[1].Type)
	assert.Equal(t, entity.ToolStateResult, parts[1].ToolInvocation.State)
	assert.Equal(t, 0, parts[1].ToolInvocation.Step)
	assert.JSONEq(t, `{"current":{"temperature_2m":20}}`, string(parts[1].ToolInvocation.Result))
	assert.Equal(t, entity.PartTypeStepStart, parts[2].Type)
	assert.Equal(t, "Twenty degrees.", parts[3].Text)
}

func TestOrchestrator_ToolErrorIsReturnedToModel(t *testing.T) {
	provider := mock.NewProvider().
		WithStep(mock.ToolStep("t1", tools.GetWeather, map[string]float64{"latitude": 500, "longitude": 0})...).
		WithStep(mock.TextStep("Sorry.")...)
	rec := &recordingReconciler{}

	lines := run(newTestOrchestrator(provider, "", rec), newTurn(constant.ChatModelDefault))

	assert.Equal(t, []string{"f", "9", "a", "e", "f", "0", "e", "d"}, prefixes(lines))
	assert.Contains(t, lines[2], `"result":{"error":`)
	require.Len(t, rec.messages, 1)
}

func TestOrchestrator_ReasoningModel(t *testing.T) {
	provider := mock.NewProvider().WithStep(
		llm.StreamChunk{Type: llm.ChunkReasoning, Text: "thinking"},
		llm.StreamChunk{Type: llm.ChunkText, Text: "Answer"},
		llm.StreamChunk{Type: llm.ChunkFinish, FinishReason: llm.FinishStop},
	)
	rec := &recordingReconciler{}

	lines := run(newTestOrchestrator(provider, "", rec), newTurn(constant.ChatModelReasoning))

	assert.Equal(t, []string{"f", "g", "0", "e", "d"}, prefixes(lines))
	assert.Equal(t, `g:"thinking"`, lines[1])

	call := provider.Calls[0]
	assert.Empty(t, call.Options.Tools, "the reasoning model runs without tools")
	assert.True(t, call.Options.Reasoning)
	assert.Equal(t, "reasoning-llm", call.Options.Model)
	assert.NotContains(t, call.History[0].Content, constant.ArtifactsPrompt)

	require.Len(t, rec.messages, 1)
	assert.Equal(t, entity.MessagePart{Type: entity.PartTypeReasoning, Reasoning: "thinking"}, rec.messages[0].Parts[1])
}

func TestOrchestrator_StepLimit(t *testing.T) {
	provider := mock.NewProvider()
	for i := 0; i < constant.MaxSteps+2; i++ {
		provider.WithStep(mock.ToolStep("t", "noSuchTool", map[string]string{})...)
	}
	rec := &recordingReconciler{}

	lines := run(newTestOrchestrator(provider, "", rec), newTurn(constant.ChatModelDefault))

	assert.Equal(t, constant.MaxSteps, provider.CallCount())
	var starts int
	for _, p := range prefixes(lines) {
		if p == "f" {
			starts++
		}
	}
	assert.Equal(t, constant.MaxSteps, starts)
	assert.Equal(t, "d", prefixes(lines)[len(lines)-1])
}

func TestOrchestrator_ProviderFailure(t *testing.T) {
	provider := mock.NewProvider().WithStep(
		llm.StreamChunk{Type: llm.ChunkText, Text: "partial "},
	)
	provider.StreamErr = errors.New("upstream 502")
	rec := &recordingReconciler{}

	lines := run(newTestOrchestrator(provider, "", rec), newTurn(constant.ChatModelDefault))

	assert.Equal(t, `3:"Oops, an error occurred!"`, lines[len(lines)-1])
	assert.NotContains(t, strings.Join(lines, "\n"), "upstream 502")
	assert.Empty(t, rec.messages, "nothing is reconciled after a failure")
}

func TestOrchestrator_UnknownModel(t *testing.T) {
	rec := &recordingReconciler{}
	lines := run(newTestOrchestrator(mock.NewProvider(), "", rec), newTurn("gpt-9"))

	assert.Equal(t, []string{`3:"Oops, an error occurred!"`}, lines)
	assert.Empty(t, rec.messages)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestOrchestrator_ClientDisconnect(t *testing.T) {
	rec := &recordingReconciler{}
	o := newTestOrchestrator(mock.NewProvider().WithStep(mock.TextStep("a b c d e f")...), "", rec)

	o.Run(newTurn(constant.ChatModelDefault), bufio.NewWriter(brokenWriter{}))
	o.Wait()

	assert.Empty(t, rec.messages, "an abandoned turn is never reconciled")
}

func TestOrchestrator_ReconcileFailureIsLoggedOnly(t *testing.T) {
	rec := &recordingReconciler{err: errors.New("db down")}
	lines := run(newTestOrchestrator(mock.NewProvider().WithStep(mock.TextStep("ok")...), "", rec), newTurn(constant.ChatModelDefault))

	assert.Equal(t, "d", prefixes(lines)[len(lines)-1])
	assert.Len(t, rec.messages, 1)
}

func TestOrchestrator_EmptyReplyIsNotReconciled(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	rec := &recordingReconciler{}
	provider := mock.NewProvider().WithStep(llm.StreamChunk{Type: llm.ChunkFinish, FinishReason: llm.FinishStop})
	o := newTestOrchestrator(provider, "", rec)
	o.logger = logger.NewFromZap(zap.New(core))

	lines := run(o, newTurn(constant.ChatModelDefault))

	assert.Equal(t, []string{"f", "e", "d"}, prefixes(lines))
	assert.Empty(t, rec.messages, "a reply with only step markers is not saved")
	require.Equal(t, 1, recorded.FilterMessage("No assistant message found").Len())
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt(constant.ChatModelDefault, RequestHints{Latitude: "52.5", Longitude: "13.4", City: "Berlin", Country: "DE"})
	assert.True(t, strings.HasPrefix(p, constant.RegularPrompt))
	assert.Contains(t, p, "city: Berlin")
	assert.Contains(t, p, constant.ArtifactsPrompt)
}
