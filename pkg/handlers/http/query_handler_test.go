package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/ragserver/pkg/app/query"
	queryMocks "github.com/ragstack/ragserver/pkg/app/query/mocks"
	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
	handlers "github.com/ragstack/ragserver/pkg/handlers/http"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newQueryApp(service query.Service) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/query", handlers.NewQueryHandler(testLogger(), service).Handle)
	return app
}

func TestQueryHandler_Success(t *testing.T) {
	service := new(queryMocks.Service)
	service.On("Query", mock.Anything, mock.MatchedBy(func(req query.Request) bool {
		return req.Query == "what is raft" && req.MaxResults == 3
	})).Return(&query.Response{
		Answer:     "raft elects a leader",
		Confidence: 0.9,
		Sources: []query.Source{
			{DocumentID: "d1", Content: "raft elects a leader", Score: 0.9},
		},
	}, nil)

	app := newQueryApp(service)

	body, _ := json.Marshal(map[string]interface{}{
		"query":       "what is raft",
		"max_results": 3,
	})
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out query.Response
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "raft elects a leader", out.Answer)
	assert.Len(t, out.Sources, 1)
}

func TestQueryHandler_SimilarityThresholdFieldDecoded(t *testing.T) {
	service := new(queryMocks.Service)
	service.On("Query", mock.Anything, mock.MatchedBy(func(req query.Request) bool {
		return req.Threshold != nil && *req.Threshold == 0.9 &&
			req.IncludeMetadata != nil && !*req.IncludeMetadata
	})).Return(&query.Response{Answer: "ok"}, nil)

	app := newQueryApp(service)

	body := []byte(`{"query":"q","similarity_threshold":0.9,"include_metadata":false}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	service.AssertExpectations(t)
}

func TestQueryHandler_EmptyQueryReturns400(t *testing.T) {
	service := new(queryMocks.Service)
	service.On("Query", mock.Anything, mock.Anything).
		Return(nil, domainErrors.ErrEmptyQuery)

	app := newQueryApp(service)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/query", bytes.NewReader([]byte(`{"query":""}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQueryHandler_InvalidBodyReturns400(t *testing.T) {
	app := newQueryApp(new(queryMocks.Service))

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/query", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
