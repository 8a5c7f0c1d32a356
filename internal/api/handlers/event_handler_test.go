package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchpulse/backend/internal/api/handlers"
	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/internal/domain/repositories"
)

type stubEventRepo struct {
	logged []*entities.SearchEvent
	err    error
}

func (s *stubEventRepo) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if s.err != nil {
		return s.err
	}
	if event.ID == "" {
		event.ID = "test-id"
	}
	s.logged = append(s.logged, event)
	return nil
}

func (s *stubEventRepo) ZeroResultEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	return &repositories.EventBatch{}, nil
}

func (s *stubEventRepo) SuccessfulEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	return &repositories.EventBatch{}, nil
}

func (s *stubEventRepo) SearchEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	return &repositories.EventBatch{}, nil
}

func (s *stubEventRepo) DailySearchCounts(ctx context.Context, start, end time.Time) ([]entities.DailySearchCount, error) {
	return nil, nil
}

func TestEventHandler_LogEvent_Success(t *testing.T) {
	repo := &stubEventRepo{}
	handler := handlers.NewEventHandler(repo)

	body := `{"user_id":"u1","search_term":"Model 3","result_count":0,"region":"us-west","device_category":"mobile"}`
	req := httptest.NewRequest("POST", "/api/events", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.LogEvent(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.logged, 1)

	event := repo.logged[0]
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "Model 3", event.SearchTerm)
	assert.Equal(t, entities.EventSearchSubmit, event.EventName)
	assert.False(t, event.EventTimestamp.IsZero())

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "logged", response["status"])
	assert.NotEmpty(t, response["id"])
}

func TestEventHandler_LogEvent_MissingUserID(t *testing.T) {
	repo := &stubEventRepo{}
	handler := handlers.NewEventHandler(repo)

	body := `{"search_term":"model 3"}`
	req := httptest.NewRequest("POST", "/api/events", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.LogEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.logged)
}

func TestEventHandler_LogEvent_MissingSearchTerm(t *testing.T) {
	repo := &stubEventRepo{}
	handler := handlers.NewEventHandler(repo)

	body := `{"user_id":"u1","search_term":"   "}`
	req := httptest.NewRequest("POST", "/api/events", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.LogEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandler_LogEvent_UnknownEventName(t *testing.T) {
	handler := handlers.NewEventHandler(&stubEventRepo{})

	body := `{"user_id":"u1","search_term":"model 3","event_name":"page_view"}`
	req := httptest.NewRequest("POST", "/api/events", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.LogEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandler_LogEvent_InvalidJSON(t *testing.T) {
	handler := handlers.NewEventHandler(&stubEventRepo{})

	req := httptest.NewRequest("POST", "/api/events", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.LogEvent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
