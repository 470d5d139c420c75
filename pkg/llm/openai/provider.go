package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI compatible chat completions API.
type OpenAIProvider struct {
	client    *goopenai.Client
	ModelName string
}

var (
	_ llm.LLMProvider    = &OpenAIProvider{}
	_ llm.ImageGenerator = &OpenAIProvider{}
)

func NewOpenAIProvider(apiKey, baseURL, modelName string) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client:    goopenai.NewClientWithConfig(cfg),
		ModelName: modelName,
	}
}

func (p *OpenAIProvider) buildRequest(history []llm.Message, opts []llm.Option) goopenai.ChatCompletionRequest {
	options := llm.ApplyOptions(llm.Options{Temperature: 0.7}, opts...)

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		m := goopenai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallId,
		}
		if msg.Role == llm.RoleTool {
			m.Name = msg.ToolName
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, goopenai.ToolCall{
				ID:   tc.Id,
				Type: goopenai.ToolTypeFunction,
				Function: goopenai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		messages = append(messages, m)
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
	}
	for _, t := range options.Tools {
		req.Tools = append(req.Tools, goopenai.Tool{
			Type: goopenai.ToolTypeFunction,
			Function: &goopenai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return req
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(history, opts))
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: no choices")
	}
	return llm.StripThink(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Stream forwards content deltas as they arrive. Tool call fragments are
// accumulated by index and delivered whole once the model finishes.
func (p *OpenAIProvider) Stream(ctx context.Context, history []llm.Message, handler llm.StreamHandler, opts ...llm.Option) error {
	req := p.buildRequest(history, opts)
	req.Stream = true
	req.StreamOptions = &goopenai.StreamOptions{IncludeUsage: true}

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	defer stream.Close()

	var (
		splitter     llm.ThinkSplitter
		calls        = map[int]*llm.ToolCall{}
		callArgs     = map[int]string{}
		finishReason string
		usage        llm.Usage
	)

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("openai stream recv: %w", err)
		}

		if resp.Usage != nil {
			usage = llm.Usage{PromptTokens: resp.Usage.PromptTokens, CompletionTokens: resp.Usage.CompletionTokens}
		}

		for _, choice := range resp.Choices {
			if choice.Delta.Content != "" {
				for _, c := range splitter.Feed(choice.Delta.Content) {
					if err := handler(c); err != nil {
						return err
					}
				}
			}
			for _, tc := range choice.Delta.ToolCalls {
				idx := 0
				if tc.Index != nil {
					idx = *tc.Index
				}
				call, ok := calls[idx]
				if !ok {
					call = &llm.ToolCall{}
					calls[idx] = call
				}
				if tc.ID != "" {
					call.Id = tc.ID
				}
				if tc.Function.Name != "" {
					call.Name = tc.Function.Name
				}
				callArgs[idx] += tc.Function.Arguments
			}
			if choice.FinishReason != "" {
				finishReason = string(choice.FinishReason)
			}
		}
	}

	for _, c := range splitter.Flush() {
		if err := handler(c); err != nil {
			return err
		}
	}

	indexes := make([]int, 0, len(calls))
	for idx := range calls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		call := calls[idx]
		args := callArgs[idx]
		if args == "" {
			args = "{}"
		}
		call.Arguments = json.RawMessage(args)
		if err := handler(llm.StreamChunk{Type: llm.ChunkToolCall, ToolCall: call}); err != nil {
			return err
		}
	}

	return handler(llm.StreamChunk{
		Type:         llm.ChunkFinish,
		FinishReason: mapFinishReason(finishReason, len(calls) > 0),
		Usage:        usage,
	})
}

func mapFinishReason(reason string, sawToolCall bool) string {
	if sawToolCall {
		return llm.FinishToolCalls
	}
	switch goopenai.FinishReason(reason) {
	case goopenai.FinishReasonStop, "":
		return llm.FinishStop
	case goopenai.FinishReasonLength:
		return llm.FinishLength
	case goopenai.FinishReasonToolCalls, goopenai.FinishReasonFunctionCall:
		return llm.FinishToolCalls
	default:
		return llm.FinishUnknown
	}
}

// GenerateImage returns the first generated image as base64.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(llm.Options{Size: goopenai.CreateImageSize1024x1024}, opts...)

	resp, err := p.client.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          options.Model,
		N:              1,
		Size:           options.Size,
		ResponseFormat: goopenai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("openai image: empty response")
	}
	return resp.Data[0].B64JSON, nil
}
