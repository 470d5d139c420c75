package unitofwork

import (
	"context"
	"testing"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/testdb"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChat(t *testing.T, uow UnitOfWork, id, userId string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, uow.ChatRepository().Create(context.Background(), &entity.Chat{
		Id:         id,
		UserId:     userId,
		Title:      "title " + id,
		Visibility: constant.VisibilityPrivate,
		CreatedAt:  createdAt,
	}))
}

func userMessage(id, chatId, text string) *entity.Message {
	return &entity.Message{
		Id:     id,
		ChatId: chatId,
		Role:   constant.MessageRoleUser,
		Parts:  []entity.MessagePart{{Type: entity.PartTypeText, Text: text}},
	}
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	factory := NewRepositoryFactory(testdb.New(t))

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx), "nested begin must fail")
	seedChat(t, uow, "c1", "u1", time.Now())
	require.NoError(t, uow.Rollback())

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: "c1"})
	require.NoError(t, err)
	assert.Nil(t, chat, "rolled back chat must not exist")

	require.NoError(t, uow.Begin(ctx))
	seedChat(t, uow, "c1", "u1", time.Now())
	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback(), "rollback after commit is a no-op")

	chat, err = uow.ChatRepository().FindOne(ctx, specification.ByID{ID: "c1"})
	require.NoError(t, err)
	require.NotNil(t, chat)
	assert.Equal(t, "u1", chat.UserId)
}

func TestChatRepository_CreateDuplicateFails(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(testdb.New(t))

	seedChat(t, uow, "c1", "u1", time.Now())
	err := uow.ChatRepository().Create(ctx, &entity.Chat{Id: "c1", UserId: "u2", Title: "x", Visibility: "private"})
	assert.Error(t, err)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", chat.UserId, "owner is immutable")
}

func TestMessageRepository_ChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(testdb.New(t))
	seedChat(t, uow, "c1", "u1", time.Now())

	msgs := uow.MessageRepository()
	require.NoError(t, msgs.CreateBatch(ctx, []*entity.Message{
		userMessage("m-b", "c1", "first"),
		userMessage("m-a", "c1", "second"),
	}))
	require.NoError(t, msgs.CreateBatch(ctx, []*entity.Message{userMessage("m-0", "c1", "third")}))

	got, err := msgs.FindAll(ctx, specification.ByChatID{ChatID: "c1"}, specification.Chronological{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text())
	assert.Equal(t, "second", got[1].Text())
	assert.Equal(t, "third", got[2].Text())
}

func TestMessageRepository_CreateBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(testdb.New(t))
	seedChat(t, uow, "c1", "u1", time.Now())

	msgs := uow.MessageRepository()
	require.NoError(t, msgs.CreateBatch(ctx, []*entity.Message{userMessage("dup", "c1", "a")}))

	err := msgs.CreateBatch(ctx, []*entity.Message{
		userMessage("fresh", "c1", "b"),
		userMessage("dup", "c1", "c"),
	})
	assert.Error(t, err)

	got, err := msgs.FindAll(ctx, specification.ByChatID{ChatID: "c1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMessageRepository_CountByUserSince(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(testdb.New(t))
	now := time.Now().UTC()

	seedChat(t, uow, "mine", "u1", now)
	seedChat(t, uow, "theirs", "u2", now)

	old := userMessage("old", "mine", "old")
	old.CreatedAt = now.Add(-25 * time.Hour)
	assistant := &entity.Message{Id: "a1", ChatId: "mine", Role: constant.MessageRoleAssistant}

	require.NoError(t, uow.MessageRepository().CreateBatch(ctx, []*entity.Message{
		old,
		userMessage("m1", "mine", "hi"),
		userMessage("m2", "mine", "again"),
		assistant,
		userMessage("o1", "theirs", "other user"),
	}))

	count, err := uow.MessageRepository().CountByUserSince(ctx, "u1", constant.MessageRoleUser, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteCascade_ChildrenBeforeParent(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(testdb.New(t))
	now := time.Now().UTC()
	seedChat(t, uow, "c1", "u1", now)
	seedChat(t, uow, "c2", "u1", now)

	chatId := "c1"
	require.NoError(t, uow.MessageRepository().CreateBatch(ctx, []*entity.Message{userMessage("m1", "c1", "hi")}))
	doc := &entity.Document{Id: "d1", Title: "Doc", Kind: "text", Content: "v1", UserId: "u1", ChatId: &chatId}
	require.NoError(t, uow.DocumentRepository().Create(ctx, doc))
	require.NoError(t, uow.SuggestionRepository().CreateBatch(ctx, []*entity.Suggestion{{
		Id: "s1", DocumentId: "d1", DocumentCreatedAt: doc.CreatedAt, OriginalText: "a", SuggestedText: "b", UserId: "u1",
	}}))
	require.NoError(t, uow.MessageRepository().CreateBatch(ctx, []*entity.Message{userMessage("m2", "c2", "keep")}))

	require.NoError(t, uow.Begin(ctx))
	ids, err := uow.DocumentRepository().FindIdsByChatId(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, ids)
	require.NoError(t, uow.SuggestionRepository().DeleteByDocumentIds(ctx, ids))
	require.NoError(t, uow.DocumentRepository().DeleteByChatId(ctx, "c1"))
	require.NoError(t, uow.MessageRepository().DeleteByChatId(ctx, "c1"))
	require.NoError(t, uow.ChatRepository().Delete(ctx, "c1"))
	require.NoError(t, uow.Commit())

	remaining, err := uow.MessageRepository().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "m2", remaining[0].Id)

	latest, err := uow.DocumentRepository().FindLatest(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	suggestions, err := uow.SuggestionRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: "d1"})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestDocumentRepository_LatestRevisionWins(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(testdb.New(t))
	base := time.Now().UTC().Add(-time.Minute)

	for i, content := range []string{"v1", "v2", "v3"} {
		require.NoError(t, uow.DocumentRepository().Create(ctx, &entity.Document{
			Id: "d1", CreatedAt: base.Add(time.Duration(i) * time.Second), Title: "Doc", Kind: "text", Content: content, UserId: "u1",
		}))
	}

	latest, err := uow.DocumentRepository().FindLatest(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "v3", latest.Content)

	all, err := uow.DocumentRepository().FindAll(ctx, specification.ByID{ID: "d1"}, specification.OrderBy{Field: "created_at"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
