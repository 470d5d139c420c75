package service

import (
	"context"
	"testing"
	"time"

	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/entity"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/testdb"
	"github.com/YohanReddy/ai-chatbot/internal/repository/specification"
	"github.com/YohanReddy/ai-chatbot/internal/repository/unitofwork"
	"github.com/YohanReddy/ai-chatbot/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_Revisions(t *testing.T) {
	ctx := context.Background()
	bus := &recordingBus{}
	svc := NewDocumentService(unitofwork.NewRepositoryFactory(testdb.New(t)), NewEventPublisher(bus, logger.NewNopLogger()))

	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, svc.SaveDocument(ctx, &entity.Document{Id: "d1", Title: "Essay", Kind: "text", Content: "v1", UserId: "u1", CreatedAt: base}))
	require.NoError(t, svc.SaveDocument(ctx, &entity.Document{Id: "d1", Title: "Essay", Kind: "text", Content: "v2", UserId: "u1", CreatedAt: base.Add(time.Minute)}))

	latest, err := svc.LatestDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v2", latest.Content)

	missing, err := svc.LatestDocument(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	revisions, err := svc.GetDocuments(ctx, regularUser, "d1")
	require.NoError(t, err)
	require.Len(t, revisions, 2)
	assert.Equal(t, "v1", revisions[0].Content)
	assert.Equal(t, "v2", revisions[1].Content)

	_, err = svc.GetDocuments(ctx, &entity.Principal{Id: "u2"}, "d1")
	assertChatError(t, err, "forbidden:document")
	_, err = svc.GetDocuments(ctx, regularUser, "nope")
	assertChatError(t, err, "not_found:document")

	assert.Equal(t, []string{events.DocumentSaved, events.DocumentSaved}, bus.types())
}

func TestDocumentService_Suggestions(t *testing.T) {
	ctx := context.Background()
	svc := NewDocumentService(unitofwork.NewRepositoryFactory(testdb.New(t)), NewEventPublisher(nil, logger.NewNopLogger()))

	empty, err := svc.GetSuggestions(ctx, regularUser, "d1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, svc.SaveSuggestions(ctx, []*entity.Suggestion{
		{DocumentId: "d1", DocumentCreatedAt: time.Now(), OriginalText: "teh", SuggestedText: "the", Description: "typo", UserId: "u1"},
	}))

	list, err := svc.GetSuggestions(ctx, regularUser, "d1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].Id)
	assert.Equal(t, "the", list[0].SuggestedText)

	_, err = svc.GetSuggestions(ctx, &entity.Principal{Id: "u2"}, "d1")
	assertChatError(t, err, "forbidden:api")
}

func TestConsumerService_PersistsAssistantMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := unitofwork.NewRepositoryFactory(testdb.New(t))
	require.NoError(t, factory.NewUnitOfWork(ctx).ChatRepository().Create(ctx, &entity.Chat{
		Id: "c1", UserId: "u1", Title: "t", Visibility: constant.VisibilityPrivate, CreatedAt: time.Now(),
	}))

	pubSub := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	defer pubSub.Close()

	consumer := NewConsumerService(pubSub, "assistant-messages", factory, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("assistant-messages", pubSub)
	require.NoError(t, publisher.PublishAssistantMessage(ctx, &entity.Message{
		Id:     "a1",
		ChatId: "c1",
		Role:   constant.MessageRoleAssistant,
		Parts: []entity.MessagePart{
			{Type: entity.PartTypeStepStart},
			{Type: entity.PartTypeText, Text: "Hello!"},
		},
	}))
	// Nothing to persist: logged and acked.
	require.NoError(t, publisher.PublishAssistantMessage(ctx, &entity.Message{Id: "a2", ChatId: "c1", Role: constant.MessageRoleAssistant}))
	require.NoError(t, publisher.PublishAssistantMessage(ctx, &entity.Message{
		Id:     "a3",
		ChatId: "c1",
		Role:   constant.MessageRoleAssistant,
		Parts:  []entity.MessagePart{{Type: entity.PartTypeStepStart}},
	}))

	uow := factory.NewUnitOfWork(ctx)
	assert.Eventually(t, func() bool {
		msg, err := uow.MessageRepository().FindOne(ctx, specification.ByID{ID: "a1"})
		return err == nil && msg != nil
	}, 2*time.Second, 10*time.Millisecond)

	msg, err := uow.MessageRepository().FindOne(ctx, specification.ByID{ID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", msg.Text())
	assert.NotNil(t, msg.Attachments)

	for _, id := range []string{"a2", "a3"} {
		skipped, err := uow.MessageRepository().FindOne(ctx, specification.ByID{ID: id})
		require.NoError(t, err)
		assert.Nil(t, skipped, "message %s has no output and is not saved", id)
	}
}
