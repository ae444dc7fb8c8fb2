package ingestion_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/ragserver/pkg/app/ingestion"
	ingestionMocks "github.com/ragstack/ragserver/pkg/app/ingestion/mocks"
	"github.com/ragstack/ragserver/pkg/domain/document"
	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
	"github.com/ragstack/ragserver/pkg/domain/streaming"
)

func newEventHandler(service ingestion.Service) *ingestion.EventHandler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return ingestion.NewEventHandler(service, logger)
}

func TestHandleDocumentCreated_IngestsEventContent(t *testing.T) {
	service := new(ingestionMocks.Service)
	service.On("Ingest", mock.Anything, mock.MatchedBy(func(input ingestion.Input) bool {
		return input.DocumentID == "doc-1" &&
			string(input.Content) == "streamed body" &&
			input.Title == "T" &&
			input.Source == ingestion.SourceStream
	})).Return(&document.Document{ID: "doc-1"}, nil)

	handler := newEventHandler(service)

	err := handler.HandleDocumentCreated(context.Background(), streaming.DocumentEvent{
		EventType:  streaming.EventDocumentCreated,
		DocumentID: "doc-1",
		Filename:   "a.txt",
		Content:    "streamed body",
		Metadata:   map[string]interface{}{"title": "T"},
	})

	require.NoError(t, err)
	service.AssertExpectations(t)
}

func TestHandleDocumentDeleted_UnknownDocumentIsIdempotent(t *testing.T) {
	service := new(ingestionMocks.Service)
	service.On("Delete", mock.Anything, "ghost").
		Return(domainErrors.ErrDocumentNotFound)

	handler := newEventHandler(service)

	err := handler.HandleDocumentDeleted(context.Background(), streaming.DocumentEvent{
		EventType:  streaming.EventDocumentDeleted,
		DocumentID: "ghost",
	})

	assert.NoError(t, err)
}

func TestHandleMetadataUpdated_DecodesJSONTags(t *testing.T) {
	service := new(ingestionMocks.Service)
	service.On("UpdateMetadata", mock.Anything, "doc-2", "new", "", "", []string{"a", "b"}).
		Return(&document.Document{ID: "doc-2"}, nil)

	handler := newEventHandler(service)

	// tags arrive as []interface{} after JSON decoding
	err := handler.HandleMetadataUpdated(context.Background(), streaming.DocumentEvent{
		EventType:  streaming.EventMetadataUpdated,
		DocumentID: "doc-2",
		Metadata: map[string]interface{}{
			"title": "new",
			"tags":  []interface{}{"a", "b"},
		},
	})

	require.NoError(t, err)
	service.AssertExpectations(t)
}
