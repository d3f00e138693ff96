package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contentpilot/internal/dto"
	"contentpilot/internal/service"
	"contentpilot/pkg/logger"
	"contentpilot/pkg/tasks"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerationService struct {
	resp *dto.GenerateResponse
	err  error
}

func (s *stubGenerationService) StartGeneration(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	return s.resp, s.err
}

func newTestHandler(gen service.GenerationService, registry *tasks.Registry) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo.New(),
		validator: goValidator.New(),
		service: &service.Service{
			GenerationService: gen,
			TaskRegistry:      registry,
		},
	}
}

func doRequest(h *HttpAPIHandler, method, target, body string, handler echo.HandlerFunc, setup func(echo.Context)) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	_ = handler(c)
	return rec
}

func TestStartGeneration(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		h := newTestHandler(&stubGenerationService{
			resp: &dto.GenerateResponse{TaskID: "article-1", ResourceID: 1},
		}, nil)

		rec := doRequest(h, http.MethodPost, "/api/v1/generations",
			`{"user_id":7,"resource_type":"article","topic":"Benefits of remote work"}`,
			h.StartGeneration, nil)

		assert.Equal(t, http.StatusAccepted, rec.Code)

		var resp dto.BaseResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "generation started", resp.Message)
	})

	t.Run("quota exceeded maps to 429", func(t *testing.T) {
		h := newTestHandler(&stubGenerationService{err: service.ErrQuotaExceeded}, nil)

		rec := doRequest(h, http.MethodPost, "/api/v1/generations",
			`{"user_id":7,"resource_type":"article","topic":"over quota"}`,
			h.StartGeneration, nil)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("missing topic is rejected", func(t *testing.T) {
		h := newTestHandler(&stubGenerationService{}, nil)

		rec := doRequest(h, http.MethodPost, "/api/v1/generations",
			`{"user_id":7,"resource_type":"article"}`,
			h.StartGeneration, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid resource type is rejected", func(t *testing.T) {
		h := newTestHandler(&stubGenerationService{}, nil)

		rec := doRequest(h, http.MethodPost, "/api/v1/generations",
			`{"user_id":7,"resource_type":"video","topic":"nope"}`,
			h.StartGeneration, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTaskStatus(t *testing.T) {
	registry := tasks.NewRegistry(logger.NewNop())

	t.Run("unknown task returns 404", func(t *testing.T) {
		h := newTestHandler(nil, registry)

		rec := doRequest(h, http.MethodGet, "/api/v1/tasks/article-999", "",
			h.GetTaskStatus, func(c echo.Context) {
				c.SetParamNames("id")
				c.SetParamValues("article-999")
			})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("known task returns snapshot", func(t *testing.T) {
		done := make(chan struct{})
		registry.Enqueue("article-1", func(ctx context.Context) (interface{}, error) {
			<-done
			return nil, nil
		})
		defer close(done)

		h := newTestHandler(nil, registry)

		rec := doRequest(h, http.MethodGet, "/api/v1/tasks/article-1", "",
			h.GetTaskStatus, func(c echo.Context) {
				c.SetParamNames("id")
				c.SetParamValues("article-1")
			})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"article-1"`)
	})
}

func TestTaskStats(t *testing.T) {
	registry := tasks.NewRegistry(logger.NewNop())
	h := newTestHandler(nil, registry)

	rec := doRequest(h, http.MethodGet, "/api/v1/tasks", "", h.TaskStats, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":0`)
}
