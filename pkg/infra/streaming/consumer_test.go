package streaming

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ragstack/ragserver/pkg/domain/streaming"
)

type handlerMock struct {
	mock.Mock
}

func (m *handlerMock) HandleDocumentCreated(ctx context.Context, event streaming.DocumentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *handlerMock) HandleDocumentUpdated(ctx context.Context, event streaming.DocumentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *handlerMock) HandleDocumentDeleted(ctx context.Context, event streaming.DocumentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *handlerMock) HandleMetadataUpdated(ctx context.Context, event streaming.DocumentEvent) error {
	return m.Called(ctx, event).Error(0)
}

func testConsumer(handler EventHandler) *Consumer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Consumer{handler: handler, logger: logger}
}

func message(topic string, payload interface{}) *kafka.Message {
	value, _ := json.Marshal(payload)
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Value:          value,
	}
}

func TestDispatch_RoutesByTopic(t *testing.T) {
	handler := new(handlerMock)
	handler.On("HandleDocumentCreated", mock.Anything, mock.MatchedBy(func(event streaming.DocumentEvent) bool {
		return event.DocumentID == "doc-1"
	})).Return(nil)
	handler.On("HandleDocumentDeleted", mock.Anything, mock.MatchedBy(func(event streaming.DocumentEvent) bool {
		return event.DocumentID == "doc-2"
	})).Return(nil)

	c := testConsumer(handler)

	c.dispatch(context.Background(), message(streaming.TopicDocuments, streaming.DocumentEvent{
		EventType:  streaming.EventDocumentCreated,
		DocumentID: "doc-1",
		Content:    "hello",
	}))
	c.dispatch(context.Background(), message(streaming.TopicDeletions, streaming.DocumentEvent{
		EventType:  streaming.EventDocumentDeleted,
		DocumentID: "doc-2",
	}))

	handler.AssertExpectations(t)
}

func TestDispatch_SkipsMalformedPayload(t *testing.T) {
	handler := new(handlerMock)
	c := testConsumer(handler)

	topic := streaming.TopicDocuments
	c.dispatch(context.Background(), &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Value:          []byte("{not json"),
	})

	handler.AssertNotCalled(t, "HandleDocumentCreated", mock.Anything, mock.Anything)
}

func TestDispatch_SkipsEventWithoutDocumentID(t *testing.T) {
	handler := new(handlerMock)
	c := testConsumer(handler)

	c.dispatch(context.Background(), message(streaming.TopicUpdates, streaming.DocumentEvent{
		EventType: streaming.EventDocumentUpdated,
	}))

	handler.AssertNotCalled(t, "HandleDocumentUpdated", mock.Anything, mock.Anything)
}

func TestDispatch_IgnoresUnknownTopic(t *testing.T) {
	handler := new(handlerMock)
	c := testConsumer(handler)

	c.dispatch(context.Background(), message("some.other.topic", streaming.DocumentEvent{
		DocumentID: "doc-3",
	}))

	handler.AssertNotCalled(t, "HandleDocumentCreated", mock.Anything, mock.Anything)
}

func TestDispatch_HandlerErrorDoesNotPanic(t *testing.T) {
	handler := new(handlerMock)
	handler.On("HandleDocumentCreated", mock.Anything, mock.Anything).
		Return(assert.AnError)

	c := testConsumer(handler)

	c.dispatch(context.Background(), message(streaming.TopicDocuments, streaming.DocumentEvent{
		EventType:  streaming.EventDocumentCreated,
		DocumentID: "doc-4",
		Content:    "x",
	}))

	handler.AssertExpectations(t)
}
