package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/searchpulse/backend/internal/adapters/database"
	"github.com/searchpulse/backend/internal/adapters/export"
	"github.com/searchpulse/backend/internal/adapters/search"
	"github.com/searchpulse/backend/internal/application/services"
	"github.com/searchpulse/backend/internal/infrastructure/clients/postgres"
	"github.com/searchpulse/backend/internal/infrastructure/clients/typesense"
	"github.com/searchpulse/backend/internal/infrastructure/observability"
	"github.com/searchpulse/backend/pkg/config"
)

const dateLayout = "2006-01-02"

func main() {
	var startRaw string
	var endRaw string
	var topN int
	var outDir string
	var indexGaps bool

	flag.StringVar(&startRaw, "start", "", "Window start date (YYYY-MM-DD)")
	flag.StringVar(&endRaw, "end", "", "Window end date (YYYY-MM-DD)")
	flag.IntVar(&topN, "top-n", 0, "Number of top terms to report (0 uses the configured default)")
	flag.StringVar(&outDir, "out", "reports", "Directory for CSV output")
	flag.BoolVar(&indexGaps, "index", false, "Index top terms into Typesense for the dashboard")
	flag.Parse()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	start, end, err := resolveWindow(startRaw, endRaw)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid report window")
	}

	// Setup DB
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgClient.Close()

	// Setup service
	eventRepo := database.NewSearchEventAdapter(pgClient)
	policy := services.MatchPolicy{
		Cutoff:         cfg.Analytics.SimilarityCutoff,
		MaxCandidates:  cfg.Analytics.MaxSuggestions,
		MaxCorpusTerms: cfg.Analytics.MaxCorpusTerms,
	}
	svc := services.NewContentGapService(eventRepo, policy, cfg.Analytics.TopN)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	began := time.Now()

	report, err := svc.GenerateReport(ctx, start, end, topN)
	if err != nil {
		log.Fatal().Err(err).Msg("Report generation failed")
	}

	log.Info().
		Str("start", start.Format(dateLayout)).
		Str("end", end.Format(dateLayout)).
		Int("zero_result_searches", report.Summary.TotalZeroResultSearches).
		Int("unique_terms", report.Summary.UniqueZeroResultTerms).
		Int("affected_users", report.Summary.AffectedUsers).
		Float64("avg_zero_result_rate", report.Summary.AvgZeroResultRate).
		Int("malformed_records", report.Summary.MalformedRecords).
		Dur("took", time.Since(began)).
		Msg("Report generated")

	if err := export.NewCSVExporter(outDir).ExportReport(report); err != nil {
		log.Fatal().Err(err).Msg("CSV export failed")
	}
	log.Info().Str("dir", outDir).Msg("CSV export complete")

	if indexGaps {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Typesense")
		}
		exporter := search.NewTypesenseExporter(tsClient, services.NewCategorizerService().Categorize)
		if err := exporter.InitSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to init Typesense schema")
		}
		if err := exporter.ExportReport(ctx, report); err != nil {
			log.Fatal().Err(err).Msg("Typesense export failed")
		}
		log.Info().Int("terms", len(report.TopZeroResultTerms)).Msg("Indexed content gaps")
	}
}

// resolveWindow parses the flag dates. When both are empty it defaults to
// the trailing 30 days, matching the scheduled report run.
func resolveWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	if startRaw == "" && endRaw == "" {
		end := time.Now().UTC().Truncate(24 * time.Hour)
		return end.AddDate(0, 0, -30), end, nil
	}

	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
