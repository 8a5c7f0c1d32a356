package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/internal/domain/repositories"
)

// EventHandler handles search event ingestion.
type EventHandler struct {
	repo repositories.SearchEventRepository
}

// NewEventHandler creates a new event handler.
func NewEventHandler(repo repositories.SearchEventRepository) *EventHandler {
	return &EventHandler{repo: repo}
}

type eventRequest struct {
	UserID         string `json:"user_id"`
	SearchTerm     string `json:"search_term"`
	ResultCount    int    `json:"result_count"`
	Region         string `json:"region"`
	DeviceCategory string `json:"device_category"`
	EventName      string `json:"event_name"`
	ClickPosition  int    `json:"click_position"`
	SessionID      string `json:"session_id"`
}

// LogEvent handles POST /api/events
func (h *EventHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	var payload eventRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.UserID = strings.TrimSpace(payload.UserID)
	payload.SearchTerm = strings.TrimSpace(payload.SearchTerm)
	if payload.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if payload.SearchTerm == "" {
		respondWithError(w, http.StatusBadRequest, "search_term is required")
		return
	}
	if payload.ResultCount < 0 {
		respondWithError(w, http.StatusBadRequest, "result_count cannot be negative")
		return
	}

	eventName := payload.EventName
	if eventName == "" {
		eventName = entities.EventSearchSubmit
	}
	if eventName != entities.EventSearchSubmit && eventName != entities.EventResultClick {
		respondWithError(w, http.StatusBadRequest, "unknown event_name")
		return
	}

	now := time.Now().UTC()
	event := &entities.SearchEvent{
		UserID:         payload.UserID,
		EventDate:      now.Truncate(24 * time.Hour),
		EventTimestamp: now,
		SearchTerm:     payload.SearchTerm,
		ResultCount:    payload.ResultCount,
		Region:         payload.Region,
		DeviceCategory: payload.DeviceCategory,
		EventName:      eventName,
		EventCategory:  "search",
		ClickPosition:  payload.ClickPosition,
		SessionID:      payload.SessionID,
	}

	if err := h.repo.LogEvent(r.Context(), event); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to log event")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"status": "logged",
		"id":     event.ID,
	})
}
