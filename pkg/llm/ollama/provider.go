package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	"github.com/google/uuid"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements LLMProvider
var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		// No client timeout: streams are bounded by the request context.
		Client: &http.Client{},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Think    bool            `json:"think,omitempty"`
	Tools    []ollamaTool    `json:"tools,omitempty"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	Thinking  string           `json:"thinking,omitempty"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
	ToolName  string           `json:"tool_name,omitempty"`
}

type ollamaToolCall struct {
	Function ollamaFunctionCall `json:"function"`
}

type ollamaFunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type ollamaTool struct {
	Type     string             `json:"type"`
	Function ollamaToolFunction `json:"function"`
}

type ollamaToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) buildRequest(history []llm.Message, stream bool, opts []llm.Option) ollamaChatRequest {
	options := llm.ApplyOptions(llm.Options{Temperature: 0.7}, opts...)

	ollamaMessages := make([]ollamaMessage, len(history))
	for i, msg := range history {
		m := ollamaMessage{
			Role:     msg.Role,
			Content:  msg.Content,
			ToolName: msg.ToolName,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, ollamaToolCall{
				Function: ollamaFunctionCall{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		ollamaMessages[i] = m
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	req := ollamaChatRequest{
		Model:    model,
		Messages: ollamaMessages,
		Stream:   stream,
		Think:    options.Reasoning,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
			NumPredict:  options.MaxTokens,
		},
	}

	for _, t := range options.Tools {
		req.Tools = append(req.Tools, ollamaTool{
			Type: "function",
			Function: ollamaToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return req
}

func (o *OllamaProvider) post(ctx context.Context, payload ollamaChatRequest) (*http.Response, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	return resp, nil
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := o.post(ctx, o.buildRequest(history, false, opts))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var ollamaResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if ollamaResp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", ollamaResp.Error)
	}

	return llm.StripThink(ollamaResp.Message.Content), nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

// Stream reads the NDJSON response of /api/chat. Ollama returns tool calls whole,
// without ids, so ids are generated here.
func (o *OllamaProvider) Stream(ctx context.Context, history []llm.Message, handler llm.StreamHandler, opts ...llm.Option) error {
	resp, err := o.post(ctx, o.buildRequest(history, true, opts))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var splitter llm.ThinkSplitter
	sawToolCall := false
	emit := func(chunks []llm.StreamChunk) error {
		for _, c := range chunks {
			if err := handler(c); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk ollamaChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama error: %s", chunk.Error)
		}

		if chunk.Message.Thinking != "" {
			if err := handler(llm.StreamChunk{Type: llm.ChunkReasoning, Text: chunk.Message.Thinking}); err != nil {
				return err
			}
		}
		if chunk.Message.Content != "" {
			if err := emit(splitter.Feed(chunk.Message.Content)); err != nil {
				return err
			}
		}
		for _, tc := range chunk.Message.ToolCalls {
			sawToolCall = true
			args := tc.Function.Arguments
			if len(args) == 0 {
				args = json.RawMessage(`{}`)
			}
			call := &llm.ToolCall{Id: "call_" + uuid.NewString(), Name: tc.Function.Name, Arguments: args}
			if err := handler(llm.StreamChunk{Type: llm.ChunkToolCall, ToolCall: call}); err != nil {
				return err
			}
		}

		if chunk.Done {
			if err := emit(splitter.Flush()); err != nil {
				return err
			}
			return handler(llm.StreamChunk{
				Type:         llm.ChunkFinish,
				FinishReason: finishReason(chunk.DoneReason, sawToolCall),
				Usage: llm.Usage{
					PromptTokens:     chunk.PromptEvalCount,
					CompletionTokens: chunk.EvalCount,
				},
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return fmt.Errorf("ollama stream ended without done")
}

func finishReason(doneReason string, sawToolCall bool) string {
	if sawToolCall {
		return llm.FinishToolCalls
	}
	switch doneReason {
	case "stop", "":
		return llm.FinishStop
	case "length":
		return llm.FinishLength
	default:
		return llm.FinishUnknown
	}
}
