// Package stream runs the generation phase of a chat turn: the model/tool
// loop, its framing onto the response, and reconciliation of the reply.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/ai/tools"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/history"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxDuration = 60 * time.Second
	DefaultSmoothDelay = 10 * time.Millisecond

	reconcileTimeout = 30 * time.Second
)

// Turn is everything needed to answer one user message.
type Turn struct {
	Chat              *entity.Chat
	Principal         *entity.Principal
	Messages          []*entity.Message // stored history with the incoming message last
	SelectedChatModel string
	Hints             RequestHints
}

// Reconciler receives the finished assistant message for persistence.
type Reconciler interface {
	PublishAssistantMessage(ctx context.Context, msg *entity.Message) error
}

type Config struct {
	MaxDuration time.Duration
	// SmoothDelay paces word delivery; zero disables pacing.
	SmoothDelay time.Duration
	FrameBuffer int
}

type Orchestrator struct {
	provider   llm.LLMProvider
	models     llm.ModelCatalog
	toolDeps   tools.Deps
	reconciler Reconciler
	logger     logger.ILogger
	cfg        Config
	tracer     trace.Tracer
	newId      func() string

	wg sync.WaitGroup
}

func NewOrchestrator(
	provider llm.LLMProvider,
	models llm.ModelCatalog,
	toolDeps tools.Deps,
	reconciler Reconciler,
	log logger.ILogger,
	cfg Config,
) *Orchestrator {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	if cfg.FrameBuffer <= 0 {
		cfg.FrameBuffer = 64
	}
	return &Orchestrator{
		provider:   provider,
		models:     models,
		toolDeps:   toolDeps,
		reconciler: reconciler,
		logger:     log,
		cfg:        cfg,
		tracer:     otel.Tracer("chat-stream"),
		newId:      func() string { return uuid.New().String() },
	}
}

// Run generates the reply for turn and writes it to w until generation ends or
// the client goes away. Generation is bound to its own deadline, not to the
// request, and is cancelled as soon as a write to w fails.
func (o *Orchestrator) Run(turn Turn, w *bufio.Writer) {
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.MaxDuration)
	defer cancel()

	s := datastream.New(cancel, o.cfg.FrameBuffer)

	var (
		reply  *entity.Message
		genErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer s.Close()
		defer func() {
			if r := recover(); r != nil {
				genErr = fmt.Errorf("generation panicked: %v", r)
				_ = s.WriteError(chaterror.StreamErrorMessage)
			}
		}()

		reply, genErr = o.generate(ctx, turn, s)
		if genErr != nil {
			_ = s.WriteError(chaterror.StreamErrorMessage)
		}
	}()

	pumpErr := s.Pump(w)
	<-done

	if pumpErr != nil {
		o.logger.Warn("STREAM", "Client disconnected, generation abandoned", map[string]interface{}{
			"chat_id": turn.Chat.Id,
			"error":   pumpErr.Error(),
		})
		return
	}
	if genErr != nil {
		o.logger.Error("STREAM", "Generation failed", map[string]interface{}{
			"chat_id": turn.Chat.Id,
			"error":   genErr,
		})
		return
	}

	o.reconcile(reply)
}

// Wait blocks until every detached reconciliation has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) reconcile(reply *entity.Message) {
	if reply == nil || !reply.HasOutput() {
		chatId := ""
		if reply != nil {
			chatId = reply.ChatId
		}
		o.logger.Error("STREAM", "No assistant message found", map[string]interface{}{"chat_id": chatId})
		return
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		if err := o.reconciler.PublishAssistantMessage(ctx, reply); err != nil {
			o.logger.Error("STREAM", "Failed to save assistant message", map[string]interface{}{
				"chat_id":    reply.ChatId,
				"message_id": reply.Id,
				"error":      err,
			})
		}
	}()
}

type stepResult struct {
	text      string
	reasoning string
	calls     []llm.ToolCall
	finish    string
	usage     llm.Usage
}

func (o *Orchestrator) generate(ctx context.Context, turn Turn, s *datastream.Stream) (reply *entity.Message, err error) {
	ctx, span := o.tracer.Start(ctx, "chat.generate", trace.WithAttributes(
		attribute.String("chat.id", turn.Chat.Id),
		attribute.String("chat.model", turn.SelectedChatModel),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	modelName, err := o.models.Resolve(turn.SelectedChatModel)
	if err != nil {
		return nil, err
	}

	registry := tools.NewTurnRegistry(o.toolDeps, tools.Turn{
		Principal: turn.Principal,
		ChatId:    turn.Chat.Id,
		Sink:      s,
	})
	opts := []llm.Option{llm.WithModel(modelName)}
	if defs := registry.Definitions(tools.ActiveTools(turn.SelectedChatModel)); len(defs) > 0 {
		opts = append(opts, llm.WithTools(defs))
	}
	if turn.SelectedChatModel == constant.ChatModelReasoning {
		opts = append(opts, llm.WithReasoning())
	}

	msgs := history.ToModelMessages(SystemPrompt(turn.SelectedChatModel, turn.Hints), turn.Messages)
	reply = &entity.Message{
		Id:          o.newId(),
		ChatId:      turn.Chat.Id,
		Role:        constant.MessageRoleAssistant,
		Attachments: []entity.Attachment{},
	}

	var total llm.Usage
	finish := llm.FinishUnknown

	for step := 0; step < constant.MaxSteps; step++ {
		if err := s.WriteStartStep(reply.Id); err != nil {
			return nil, err
		}
		reply.Parts = append(reply.Parts, entity.MessagePart{Type: entity.PartTypeStepStart})

		res, err := o.runStep(ctx, msgs, s, opts)
		if err != nil {
			return nil, err
		}
		total = total.Add(res.usage)

		if res.reasoning != "" {
			reply.Parts = append(reply.Parts, entity.MessagePart{Type: entity.PartTypeReasoning, Reasoning: res.reasoning})
		}
		if res.text != "" {
			reply.Parts = append(reply.Parts, entity.MessagePart{Type: entity.PartTypeText, Text: res.text})
		}

		if len(res.calls) > 0 {
			msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: res.text, ToolCalls: res.calls})
			for _, call := range res.calls {
				part, result, err := o.callTool(ctx, step, registry, call, s)
				if err != nil {
					return nil, err
				}
				reply.Parts = append(reply.Parts, part)
				msgs = append(msgs, result)
			}
		}

		finish = res.finish
		if err := s.WriteFinishStep(finish, res.usage, false); err != nil {
			return nil, err
		}
		if len(res.calls) == 0 {
			break
		}
	}

	if err := s.WriteFinishMessage(finish, total); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", total.PromptTokens),
		attribute.Int("llm.completion_tokens", total.CompletionTokens),
	)
	return reply, nil
}

func (o *Orchestrator) runStep(ctx context.Context, msgs []llm.Message, s *datastream.Stream, opts []llm.Option) (*stepResult, error) {
	res := &stepResult{finish: llm.FinishUnknown}
	var text, reasoning strings.Builder
	smoother := llm.NewWordSmoother(o.cfg.SmoothDelay, s.WriteText)

	err := o.provider.Stream(ctx, msgs, func(c llm.StreamChunk) error {
		switch c.Type {
		case llm.ChunkText:
			text.WriteString(c.Text)
			return smoother.Push(ctx, c.Text)
		case llm.ChunkReasoning:
			if err := smoother.Flush(); err != nil {
				return err
			}
			reasoning.WriteString(c.Text)
			return s.WriteReasoning(c.Text)
		case llm.ChunkToolCall:
			if c.ToolCall != nil {
				res.calls = append(res.calls, normalizeCall(*c.ToolCall))
			}
		case llm.ChunkFinish:
			if c.FinishReason != "" {
				res.finish = c.FinishReason
			}
			res.usage = c.Usage
		}
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if err := smoother.Flush(); err != nil {
		return nil, err
	}

	res.text = text.String()
	res.reasoning = reasoning.String()
	return res, nil
}

// callTool frames the call, runs it and frames its result. Tool failures
// become error results for the model; only a dead stream or context aborts.
func (o *Orchestrator) callTool(ctx context.Context, step int, registry *tools.Registry, call llm.ToolCall, s *datastream.Stream) (entity.MessagePart, llm.Message, error) {
	ctx, span := o.tracer.Start(ctx, "chat.tool", trace.WithAttributes(attribute.String("tool.name", call.Name)))
	defer span.End()

	if err := s.WriteToolCall(call.Id, call.Name, call.Arguments); err != nil {
		return entity.MessagePart{}, llm.Message{}, err
	}

	result, err := registry.Execute(ctx, call.Name, call.Arguments)
	if err != nil {
		if errors.Is(err, datastream.ErrClosed) || ctx.Err() != nil {
			return entity.MessagePart{}, llm.Message{}, err
		}
		span.RecordError(err)
		o.logger.Warn("STREAM", "Tool execution failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		result = tools.ErrorResult(err)
	}

	if err := s.WriteToolResult(call.Id, result); err != nil {
		return entity.MessagePart{}, llm.Message{}, err
	}

	part := entity.MessagePart{
		Type: entity.PartTypeToolInvocation,
		ToolInvocation: &entity.ToolInvocation{
			State:      entity.ToolStateResult,
			Step:       step,
			ToolCallId: call.Id,
			ToolName:   call.Name,
			Args:       call.Arguments,
			Result:     result,
		},
	}
	msg := llm.Message{
		Role:       llm.RoleTool,
		Content:    string(result),
		ToolCallId: call.Id,
		ToolName:   call.Name,
	}
	return part, msg, nil
}

func normalizeCall(call llm.ToolCall) llm.ToolCall {
	if call.Id == "" {
		call.Id = "call_" + uuid.New().String()
	}
	if len(call.Arguments) == 0 || !json.Valid(call.Arguments) {
		call.Arguments = json.RawMessage(`{}`)
	}
	return call
}
