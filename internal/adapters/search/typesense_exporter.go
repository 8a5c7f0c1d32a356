package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/searchpulse/backend/internal/domain/entities"
	tsclient "github.com/searchpulse/backend/internal/infrastructure/clients/typesense"
)

// TypesenseExporter indexes content-gap terms into a Typesense collection
// so the content team can search and facet them from the dashboard.
type TypesenseExporter struct {
	client     *tsclient.Client
	categorize func(term string) string
}

// NewTypesenseExporter creates a new exporter. categorize tags each indexed
// term with its intent category for faceting.
func NewTypesenseExporter(client *tsclient.Client, categorize func(term string) string) *TypesenseExporter {
	return &TypesenseExporter{client: client, categorize: categorize}
}

// InitSchema ensures the content_gaps collection exists
func (e *TypesenseExporter) InitSchema(ctx context.Context) error {
	_, err := e.client.Client().Collection(tsclient.ContentGapsCollection).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: tsclient.ContentGapsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "normalized_term", Type: "string"},
			{Name: "original_term", Type: "string"},
			{Name: "search_count", Type: "int32"},
			{Name: "percentage", Type: "float"},
			{Name: "suggested_correction", Type: "string", Optional: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "report_start", Type: "string", Facet: pointer.True()},
			{Name: "report_end", Type: "string", Facet: pointer.True()},
			{Name: "generated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("generated_at"),
	}

	if _, err := e.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// ExportReport upserts one document per top zero-result term. A term whose
// best correction exists in the typo suggestions is marked as a likely
// typo; the rest are the actual content gaps.
func (e *TypesenseExporter) ExportReport(ctx context.Context, report *entities.ContentGapReport) error {
	corrections := make(map[string]string, len(report.TypoSuggestions))
	for _, s := range report.TypoSuggestions {
		corrections[s.ZeroResultTerm] = s.SuggestedCorrection
	}

	start := report.StartDate.Format("2006-01-02")
	end := report.EndDate.Format("2006-01-02")

	for _, term := range report.TopZeroResultTerms {
		document := map[string]interface{}{
			"id":              fmt.Sprintf("%s:%s:%s", start, end, term.NormalizedTerm),
			"normalized_term": term.NormalizedTerm,
			"original_term":   term.OriginalTerm,
			"search_count":    term.SearchCount,
			"percentage":      term.Percentage,
			"category":        e.categorize(term.OriginalTerm),
			"report_start":    start,
			"report_end":      end,
			"generated_at":    report.GeneratedAt.Unix(),
		}
		if correction, ok := corrections[term.NormalizedTerm]; ok {
			document["suggested_correction"] = correction
		}

		_, err := e.client.Client().Collection(tsclient.ContentGapsCollection).Documents().Upsert(ctx, document)
		if err != nil {
			return fmt.Errorf("failed to index content gap %q: %w", term.NormalizedTerm, err)
		}
	}
	return nil
}
