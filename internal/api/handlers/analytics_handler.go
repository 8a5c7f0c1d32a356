package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/searchpulse/backend/internal/domain/entities"
	apperrors "github.com/searchpulse/backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// ContentGapReporter defines the content-gap operations used by the handler.
type ContentGapReporter interface {
	GenerateReport(ctx context.Context, start, end time.Time, topN int) (*entities.ContentGapReport, error)
}

// EngagementReporter defines the engagement operations used by the handler.
type EngagementReporter interface {
	GenerateReport(ctx context.Context, start, end time.Time) (*entities.EngagementReport, error)
}

// AnalyticsHandler handles analytics report requests.
type AnalyticsHandler struct {
	contentGaps ContentGapReporter
	engagement  EngagementReporter
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(contentGaps ContentGapReporter, engagement EngagementReporter) *AnalyticsHandler {
	return &AnalyticsHandler{
		contentGaps: contentGaps,
		engagement:  engagement,
	}
}

// GetContentGaps handles GET /api/analytics/content-gaps
func (h *AnalyticsHandler) GetContentGaps(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseWindow(w, r)
	if !ok {
		return
	}

	topN := 0
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "top_n must be a positive integer")
			return
		}
		topN = parsed
	}

	report, err := h.contentGaps.GenerateReport(r.Context(), start, end, topN)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// GetEngagement handles GET /api/analytics/engagement
func (h *AnalyticsHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseWindow(w, r)
	if !ok {
		return
	}

	report, err := h.engagement.GenerateReport(r.Context(), start, end)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// parseWindow reads the required start_date and end_date query parameters.
// It writes the error response itself and reports success via ok.
func parseWindow(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
	startRaw := r.URL.Query().Get("start_date")
	endRaw := r.URL.Query().Get("end_date")
	if startRaw == "" || endRaw == "" {
		respondWithError(w, http.StatusBadRequest, "start_date and end_date are required")
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "start_date must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse(dateLayout, endRaw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "end_date must be formatted as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound, apperrors.ErrorTypeEmptyResult:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
