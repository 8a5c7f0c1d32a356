package routes

import (
	"net/http"

	"github.com/searchpulse/backend/internal/api/handlers"
	"github.com/searchpulse/backend/internal/api/middleware"
	"github.com/searchpulse/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	analyticsHandler *handlers.AnalyticsHandler
	eventHandler     *handlers.EventHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	analyticsHandler *handlers.AnalyticsHandler,
	eventHandler *handlers.EventHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		analyticsHandler: analyticsHandler,
		eventHandler:     eventHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/content-gaps", r.analyticsHandler.GetContentGaps)
	r.mux.HandleFunc("GET /api/analytics/engagement", r.analyticsHandler.GetEngagement)

	// Event ingestion endpoint
	r.mux.HandleFunc("POST /api/events", r.eventHandler.LogEvent)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on errors
	handler = middleware.CORSMiddleware(handler)

	return handler
}
