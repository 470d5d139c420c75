package service

import (
	"context"

	"github.com/YohanReddy/ai-chatbot/internal/dto"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"
	"github.com/YohanReddy/ai-chatbot/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IDocumentService serves both the HTTP document endpoints and the document
// tools, which persist through SaveDocument and SaveSuggestions.
type IDocumentService interface {
	SaveDocument(ctx context.Context, doc *entity.Document) error
	LatestDocument(ctx context.Context, id string) (*entity.Document, error)
	SaveSuggestions(ctx context.Context, suggestions []*entity.Suggestion) error

	GetDocuments(ctx context.Context, principal *entity.Principal, id string) ([]*dto.DocumentResponse, error)
	GetSuggestions(ctx context.Context, principal *entity.Principal, documentId string) ([]*dto.SuggestionResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
	events     IEventPublisher
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, events IEventPublisher) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
		events:     events,
	}
}

// SaveDocument stores a new revision of doc.
func (s *documentService) SaveDocument(ctx context.Context, doc *entity.Document) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return err
	}

	s.events.PublishDocumentSaved(ctx, doc)
	return nil
}

func (s *documentService) LatestDocument(ctx context.Context, id string) (*entity.Document, error) {
	return s.uowFactory.NewUnitOfWork(ctx).DocumentRepository().FindLatest(ctx, id)
}

func (s *documentService) SaveSuggestions(ctx context.Context, suggestions []*entity.Suggestion) error {
	for _, sg := range suggestions {
		if sg.Id == "" {
			sg.Id = uuid.New().String()
		}
	}
	return s.uowFactory.NewUnitOfWork(ctx).SuggestionRepository().CreateBatch(ctx, suggestions)
}

// GetDocuments returns every revision of the document, oldest first.
func (s *documentService) GetDocuments(ctx context.Context, principal *entity.Principal, id string) ([]*dto.DocumentResponse, error) {
	docs, err := s.uowFactory.NewUnitOfWork(ctx).DocumentRepository().FindAll(ctx,
		specification.ByID{ID: id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, chaterror.Database(err)
	}
	if len(docs) == 0 {
		return nil, chaterror.New(chaterror.NotFound, chaterror.SurfaceDocument)
	}
	if docs[0].UserId != principal.Id {
		return nil, chaterror.New(chaterror.Forbidden, chaterror.SurfaceDocument)
	}

	res := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, dto.NewDocumentResponse(d))
	}
	return res, nil
}

// GetSuggestions lists the suggestions of a document. Ownership is judged by
// the first suggestion, so a document without suggestions yields an empty list.
func (s *documentService) GetSuggestions(ctx context.Context, principal *entity.Principal, documentId string) ([]*dto.SuggestionResponse, error) {
	suggestions, err := s.uowFactory.NewUnitOfWork(ctx).SuggestionRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: documentId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, chaterror.Database(err)
	}

	res := make([]*dto.SuggestionResponse, 0, len(suggestions))
	if len(suggestions) == 0 {
		return res, nil
	}
	if suggestions[0].UserId != principal.Id {
		return nil, chaterror.New(chaterror.Forbidden, chaterror.SurfaceApi)
	}

	for _, sg := range suggestions {
		res = append(res, dto.NewSuggestionResponse(sg))
	}
	return res, nil
}
