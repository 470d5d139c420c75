package service

import (
	"context"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/dto"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/chaterror"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"
	"github.com/YohanReddy/ai-chatbot/internal/repository/unitofwork"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/history"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/quota"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/stream"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/title"
)

type IChatService interface {
	// StartTurn runs every pre-stream step of a turn and returns what the
	// orchestrator needs. The user message is stored when it returns nil error.
	StartTurn(ctx context.Context, principal *entity.Principal, req *dto.PostChatRequest, hints stream.RequestHints) (*stream.Turn, error)
	GetChat(ctx context.Context, principal *entity.Principal, id string) (*dto.ChatDetailResponse, error)
	GetHistory(ctx context.Context, principal *entity.Principal, req dto.ChatHistoryRequest) (*dto.ChatHistoryResponse, error)
	UpdateVisibility(ctx context.Context, principal *entity.Principal, id string, visibility string) (*dto.ChatResponse, error)
	DeleteChat(ctx context.Context, principal *entity.Principal, id string) (*dto.ChatResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	quota      *quota.Gate
	titles     *title.Generator
	events     IEventPublisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	quotaGate *quota.Gate,
	titles *title.Generator,
	events IEventPublisher,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		quota:      quotaGate,
		titles:     titles,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *chatService) StartTurn(ctx context.Context, principal *entity.Principal, req *dto.PostChatRequest, hints stream.RequestHints) (*stream.Turn, error) {
	if !s.quota.Entitlement(principal.Type).AllowsModel(req.SelectedChatModel) {
		return nil, chaterror.New(chaterror.Forbidden, chaterror.SurfaceChat, "Model not available for this account.")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.quota.Check(ctx, uow.MessageRepository(), principal); err != nil {
		return nil, err
	}

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, chaterror.Database(err)
	}

	isNew := chat == nil
	if isNew {
		chat = &entity.Chat{
			Id:         req.Id,
			UserId:     principal.Id,
			Visibility: req.SelectedVisibilityType,
			CreatedAt:  s.now(),
		}
	} else if chat.UserId != principal.Id {
		return nil, chaterror.New(chaterror.Forbidden, chaterror.SurfaceChat)
	}

	incoming := &entity.Message{
		Id:          req.Message.Id,
		ChatId:      req.Id,
		Role:        constant.MessageRoleUser,
		Parts:       make([]entity.MessagePart, 0, len(req.Message.Parts)),
		Attachments: req.Message.AllAttachments(),
		CreatedAt:   s.now(),
	}
	for _, p := range req.Message.Parts {
		incoming.Parts = append(incoming.Parts, entity.MessagePart{Type: p.Type, Text: p.Text})
	}

	// The title model is slow; it runs before the transaction opens.
	if isNew {
		chat.Title = s.titles.FromMessage(ctx, incoming)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, chaterror.Database(err)
	}
	defer uow.Rollback()

	if isNew {
		if err := uow.ChatRepository().Create(ctx, chat); err != nil {
			return nil, chaterror.Database(err)
		}
	}

	msgs, err := history.Assemble(ctx, uow.MessageRepository(), chat.Id, incoming)
	if err != nil {
		return nil, chaterror.Database(err)
	}

	if err := uow.MessageRepository().CreateBatch(ctx, []*entity.Message{incoming}); err != nil {
		return nil, chaterror.Database(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, chaterror.Database(err)
	}

	if isNew {
		s.events.PublishChatCreated(ctx, chat)
	}

	return &stream.Turn{
		Chat:              chat,
		Principal:         principal,
		Messages:          msgs,
		SelectedChatModel: req.SelectedChatModel,
		Hints:             hints,
	}, nil
}

func (s *chatService) GetChat(ctx context.Context, principal *entity.Principal, id string) (*dto.ChatDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, chaterror.Database(err)
	}
	if chat == nil {
		return nil, chaterror.New(chaterror.NotFound, chaterror.SurfaceChat)
	}

	isOwner := chat.UserId == principal.Id
	if chat.Visibility == constant.VisibilityPrivate && !isOwner {
		return nil, chaterror.New(chaterror.Forbidden, chaterror.SurfaceChat)
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: id},
		specification.Chronological{},
	)
	if err != nil {
		return nil, chaterror.Database(err)
	}

	res := &dto.ChatDetailResponse{
		Chat:       *dto.NewChatResponse(chat),
		Messages:   make([]*dto.MessageResponse, 0, len(messages)),
		IsReadonly: !isOwner,
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, dto.NewMessageResponse(m))
	}
	return res, nil
}

// GetHistory pages through the caller's chats, newest first. StartingAfter
// returns chats newer than the cursor chat, EndingBefore older ones.
func (s *chatService) GetHistory(ctx context.Context, principal *entity.Principal, req dto.ChatHistoryRequest) (*dto.ChatHistoryResponse, error) {
	if req.StartingAfter != "" && req.EndingBefore != "" {
		return nil, chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi,
			"Only one of starting_after or ending_before can be provided.")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = constant.HistoryDefaultLimit
	}
	if limit > constant.HistoryMaxLimit {
		limit = constant.HistoryMaxLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{specification.UserOwnedBy{UserID: principal.Id}}

	cursorId := req.StartingAfter
	if cursorId == "" {
		cursorId = req.EndingBefore
	}
	if cursorId != "" {
		cursor, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: cursorId})
		if err != nil {
			return nil, chaterror.Database(err)
		}
		if cursor == nil {
			return nil, chaterror.New(chaterror.BadRequest, chaterror.SurfaceApi,
				"Chat with id "+cursorId+" not found")
		}
		if req.StartingAfter != "" {
			specs = append(specs, specification.CreatedAfter{Time: cursor.CreatedAt})
		} else {
			specs = append(specs, specification.CreatedBefore{Time: cursor.CreatedAt})
		}
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Pagination{Limit: limit + 1},
	)

	chats, err := uow.ChatRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, chaterror.Database(err)
	}

	hasMore := len(chats) > limit
	if hasMore {
		chats = chats[:limit]
	}

	res := &dto.ChatHistoryResponse{
		Chats:   make([]*dto.ChatResponse, 0, len(chats)),
		HasMore: hasMore,
	}
	for _, c := range chats {
		res.Chats = append(res.Chats, dto.NewChatResponse(c))
	}
	return res, nil
}

func (s *chatService) UpdateVisibility(ctx context.Context, principal *entity.Principal, id string, visibility string) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := s.ownedChat(ctx, uow, principal, id)
	if err != nil {
		return nil, err
	}

	if err := uow.ChatRepository().UpdateVisibility(ctx, id, visibility); err != nil {
		return nil, chaterror.Database(err)
	}
	chat.Visibility = visibility
	return dto.NewChatResponse(chat), nil
}

// DeleteChat removes the chat and everything hanging off it in one
// transaction, children first: suggestions, documents, messages, chat.
func (s *chatService) DeleteChat(ctx context.Context, principal *entity.Principal, id string) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := s.ownedChat(ctx, uow, principal, id)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, chaterror.Database(err)
	}
	defer uow.Rollback()

	documentIds, err := uow.DocumentRepository().FindIdsByChatId(ctx, id)
	if err != nil {
		return nil, chaterror.Database(err)
	}
	if err := uow.SuggestionRepository().DeleteByDocumentIds(ctx, documentIds); err != nil {
		return nil, chaterror.Database(err)
	}
	if err := uow.DocumentRepository().DeleteByChatId(ctx, id); err != nil {
		return nil, chaterror.Database(err)
	}
	if err := uow.MessageRepository().DeleteByChatId(ctx, id); err != nil {
		return nil, chaterror.Database(err)
	}
	if err := uow.ChatRepository().Delete(ctx, id); err != nil {
		return nil, chaterror.Database(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, chaterror.Database(err)
	}

	s.events.PublishChatDeleted(ctx, chat)
	return dto.NewChatResponse(chat), nil
}

func (s *chatService) ownedChat(ctx context.Context, uow unitofwork.UnitOfWork, principal *entity.Principal, id string) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, chaterror.Database(err)
	}
	if chat == nil {
		return nil, chaterror.New(chaterror.NotFound, chaterror.SurfaceChat)
	}
	if chat.UserId != principal.Id {
		return nil, chaterror.New(chaterror.Forbidden, chaterror.SurfaceChat)
	}
	return chat, nil
}
