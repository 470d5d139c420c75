package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/pkg/artifact"
	"github.com/YohanReddy/ai-chatbot/pkg/datastream"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	"github.com/google/uuid"
)

const maxSuggestions = 5

// DocumentStore is the storage the document tools need.
type DocumentStore interface {
	LatestDocument(ctx context.Context, id string) (*entity.Document, error)
	SaveSuggestions(ctx context.Context, suggestions []*entity.Suggestion) error
}

// Deps are the process-wide collaborators shared by every turn.
type Deps struct {
	Weather     *WeatherClient
	Artifacts   *artifact.Dispatcher
	Documents   DocumentStore
	Suggestions artifact.Generator
	Logger      logger.ILogger
}

// Turn binds the tools to one request.
type Turn struct {
	Principal *entity.Principal
	ChatId    string
	Sink      datastream.DataSink
}

// NewTurnRegistry builds the registry for one turn. Tools that write to the
// side channel write through turn.Sink.
func NewTurnRegistry(deps Deps, turn Turn) *Registry {
	r := NewRegistry()
	r.MustRegister(newWeatherTool(deps.Weather))
	r.MustRegister(newCreateDocumentTool(deps, turn))
	r.MustRegister(newUpdateDocumentTool(deps, turn))
	r.MustRegister(newRequestSuggestionsTool(deps, turn))
	return r
}

type createDocumentArgs struct {
	Title string `json:"title" validate:"required"`
	Kind  string `json:"kind" validate:"required,oneof=text code image sheet"`
}

type documentResult struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeAll(sink datastream.DataSink, events ...datastream.DataEvent) error {
	for _, e := range events {
		if err := sink.WriteData(e); err != nil {
			return err
		}
	}
	return nil
}

func newCreateDocumentTool(deps Deps, turn Turn) Tool {
	return Tool{
		Definition: llm.ToolDefinition{
			Name:        CreateDocument,
			Description: "Create a document for a writing or content creation activity. This tool will call other functions that will generate the contents of the document based on the title and kind.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"kind": {"type": "string", "enum": ["text", "code", "image", "sheet"]}
				},
				"required": ["title", "kind"]
			}`),
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var args createDocumentArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if _, err := deps.Artifacts.Lookup(args.Kind); err != nil {
				return nil, err
			}

			id := uuid.NewString()
			if err := writeAll(turn.Sink,
				datastream.DataEvent{Type: "kind", Content: args.Kind},
				datastream.DataEvent{Type: "id", Content: id},
				datastream.DataEvent{Type: "title", Content: args.Title},
				datastream.DataEvent{Type: "clear", Content: ""},
			); err != nil {
				return nil, err
			}

			if _, err := deps.Artifacts.Create(ctx, turn.Principal, turn.ChatId, args.Kind, artifact.CreateParams{
				Id:    id,
				Title: args.Title,
				Sink:  turn.Sink,
			}); err != nil {
				return nil, err
			}

			if err := turn.Sink.WriteData(datastream.DataEvent{Type: "finish", Content: ""}); err != nil {
				return nil, err
			}

			return encodeResult(documentResult{
				Id:      id,
				Title:   args.Title,
				Kind:    args.Kind,
				Content: "A document was created and is now visible to the user.",
			})
		},
	}
}

type updateDocumentArgs struct {
	Id          string `json:"id" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func newUpdateDocumentTool(deps Deps, turn Turn) Tool {
	return Tool{
		Definition: llm.ToolDefinition{
			Name:        UpdateDocument,
			Description: "Update a document with the given description.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"id": {"type": "string", "description": "The ID of the document to update"},
					"description": {"type": "string", "description": "The description of changes that need to be made"}
				},
				"required": ["id", "description"]
			}`),
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var args updateDocumentArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}

			doc, err := ownedDocument(ctx, deps.Documents, turn.Principal, args.Id)
			if err != nil {
				return nil, err
			}
			if doc == nil {
				return encodeResult(map[string]string{"error": "Document not found"})
			}

			if err := turn.Sink.WriteData(datastream.DataEvent{Type: "clear", Content: doc.Title}); err != nil {
				return nil, err
			}

			if _, err := deps.Artifacts.Update(ctx, turn.Principal, artifact.UpdateParams{
				Document:    doc,
				Description: args.Description,
				Sink:        turn.Sink,
			}); err != nil {
				return nil, err
			}

			if err := turn.Sink.WriteData(datastream.DataEvent{Type: "finish", Content: ""}); err != nil {
				return nil, err
			}

			return encodeResult(documentResult{
				Id:      doc.Id,
				Title:   doc.Title,
				Kind:    doc.Kind,
				Content: "The document has been updated successfully.",
			})
		},
	}
}

type requestSuggestionsArgs struct {
	DocumentId string `json:"documentId" validate:"required"`
}

type generatedSuggestion struct {
	OriginalSentence  string `json:"originalSentence"`
	SuggestedSentence string `json:"suggestedSentence"`
	Description       string `json:"description"`
}

type suggestionEvent struct {
	Id            string `json:"id"`
	DocumentId    string `json:"documentId"`
	OriginalText  string `json:"originalText"`
	SuggestedText string `json:"suggestedText"`
	Description   string `json:"description"`
	IsResolved    bool   `json:"isResolved"`
}

func newRequestSuggestionsTool(deps Deps, turn Turn) Tool {
	return Tool{
		Definition: llm.ToolDefinition{
			Name:        RequestSuggestions,
			Description: "Request suggestions for a document",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"documentId": {"type": "string", "description": "The ID of the document to request edits"}
				},
				"required": ["documentId"]
			}`),
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var args requestSuggestionsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}

			doc, err := ownedDocument(ctx, deps.Documents, turn.Principal, args.DocumentId)
			if err != nil {
				return nil, err
			}
			if doc == nil || doc.Content == "" {
				return encodeResult(map[string]string{"error": "Document not found"})
			}

			generated, err := generateSuggestions(ctx, deps.Suggestions, doc.Content)
			if err != nil {
				return nil, err
			}

			suggestions := make([]*entity.Suggestion, 0, len(generated))
			for _, g := range generated {
				s := &entity.Suggestion{
					Id:                uuid.NewString(),
					DocumentId:        doc.Id,
					DocumentCreatedAt: doc.CreatedAt,
					OriginalText:      g.OriginalSentence,
					SuggestedText:     g.SuggestedSentence,
					Description:       g.Description,
				}
				if err := turn.Sink.WriteData(datastream.DataEvent{Type: "suggestion", Content: suggestionEvent{
					Id:            s.Id,
					DocumentId:    s.DocumentId,
					OriginalText:  s.OriginalText,
					SuggestedText: s.SuggestedText,
					Description:   s.Description,
				}}); err != nil {
					return nil, err
				}
				suggestions = append(suggestions, s)
			}

			for _, s := range suggestions {
				s.UserId = turn.Principal.Id
			}
			if err := deps.Documents.SaveSuggestions(ctx, suggestions); err != nil {
				return nil, err
			}

			return encodeResult(documentResult{
				Id:      doc.Id,
				Title:   doc.Title,
				Kind:    doc.Kind,
				Message: "Suggestions have been added to the document",
			})
		},
	}
}

// ownedDocument returns the latest revision of id, or nil when it does not
// exist or belongs to someone other than principal.
func ownedDocument(ctx context.Context, docs DocumentStore, principal *entity.Principal, id string) (*entity.Document, error) {
	doc, err := docs.LatestDocument(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}
	if principal == nil || principal.Id == "" || doc.UserId != principal.Id {
		return nil, nil
	}
	return doc, nil
}

func generateSuggestions(ctx context.Context, gen artifact.Generator, content string) ([]generatedSuggestion, error) {
	answer, err := gen.Provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.SuggestionsPrompt},
		{Role: llm.RoleUser, Content: content},
	}, llm.WithModel(gen.Model))
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if start := strings.IndexByte(answer, '['); start >= 0 {
		if end := strings.LastIndexByte(answer, ']'); end > start {
			answer = answer[start : end+1]
		}
	}

	var out []generatedSuggestion
	if err := json.Unmarshal([]byte(answer), &out); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	filtered := out[:0]
	for _, s := range out {
		if s.OriginalSentence != "" && s.SuggestedSentence != "" {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) > maxSuggestions {
		filtered = filtered[:maxSuggestions]
	}
	return filtered, nil
}
