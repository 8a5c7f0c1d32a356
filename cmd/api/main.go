package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/searchpulse/backend/internal/adapters/cache"
	"github.com/searchpulse/backend/internal/adapters/database"
	"github.com/searchpulse/backend/internal/adapters/events"
	"github.com/searchpulse/backend/internal/adapters/search"
	"github.com/searchpulse/backend/internal/api/handlers"
	"github.com/searchpulse/backend/internal/api/routes"
	"github.com/searchpulse/backend/internal/application/services"
	"github.com/searchpulse/backend/internal/domain/providers"
	"github.com/searchpulse/backend/internal/infrastructure/clients/postgres"
	"github.com/searchpulse/backend/internal/infrastructure/clients/redis"
	"github.com/searchpulse/backend/internal/infrastructure/clients/typesense"
	"github.com/searchpulse/backend/internal/infrastructure/observability"
	"github.com/searchpulse/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without caching")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client, dashboard export disabled")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized successfully")
	}

	// Initialize adapters
	eventRepo := database.NewSearchEventAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for report announcements
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized successfully")
	} else {
		log.Info().Msg("Event bus disabled (Redis not available)")
	}

	// Initialize services
	policy := services.MatchPolicy{
		Cutoff:         cfg.Analytics.SimilarityCutoff,
		MaxCandidates:  cfg.Analytics.MaxSuggestions,
		MaxCorpusTerms: cfg.Analytics.MaxCorpusTerms,
	}

	contentGapService := services.NewContentGapService(eventRepo, policy, cfg.Analytics.TopN)
	if cacheProvider != nil {
		contentGapService.SetCache(cacheProvider, cfg.Analytics.ReportCacheTTLSeconds)
		log.Info().Msg("Report cache configured for content gap service")
	}
	if eventBus != nil {
		contentGapService.SetEventBus(eventBus)
		log.Info().Msg("Event bus configured for content gap service")
	}

	engagementService := services.NewEngagementService(eventRepo)

	// Ensure the dashboard collection exists when Typesense is available
	if typesenseClient != nil {
		exporter := search.NewTypesenseExporter(typesenseClient, services.NewCategorizerService().Categorize)
		if err := exporter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
	}

	// Initialize handlers
	analyticsHandler := handlers.NewAnalyticsHandler(contentGapService, engagementService)
	eventHandler := handlers.NewEventHandler(eventRepo)

	// Set up router
	router := routes.NewRouter(analyticsHandler, eventHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
