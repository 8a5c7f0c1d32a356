package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchpulse/backend/internal/domain/entities"
)

func sampleReport() *entities.ContentGapReport {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	return &entities.ContentGapReport{
		StartDate: start,
		EndDate:   end,
		TopZeroResultTerms: []entities.TermFrequency{
			{NormalizedTerm: "modle3", OriginalTerm: "Modle3", SearchCount: 2, Percentage: 40},
		},
		TypoSuggestions: []entities.TypoSuggestion{
			{ZeroResultTerm: "modle3", SuggestedCorrection: "model3", AlternateSuggestions: []string{"model x"}, Frequency: 2},
		},
		RegionalAnalysis: []entities.RegionalBucket{
			{Region: "us-west", ZeroResultCount: 3, UniqueUsers: 2},
		},
		CategoryBreakdown: []entities.CategoryCount{
			{Category: entities.CategorySingleWord, SearchCount: 2, UniqueUsers: 2},
		},
		TrendOverTime: []entities.DailyTrendPoint{
			{Date: start, TotalSearches: 10, ZeroResultCount: 5, ZeroResultRate: 0.5},
		},
		Summary: entities.ReportSummary{
			TotalZeroResultSearches: 5,
			UniqueZeroResultTerms:   2,
			AffectedUsers:           5,
			AvgZeroResultRate:       0.25,
			MalformedRecords:        1,
		},
		GeneratedAt: end,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportReportWritesAllSections(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)

	require.NoError(t, exporter.ExportReport(sampleReport()))

	for _, name := range []string{
		"top_terms", "typo_suggestions", "regional_analysis",
		"category_breakdown", "trend_over_time", "summary",
	} {
		path := filepath.Join(dir, name+"_2024-06-01_2024-06-07.csv")
		_, err := os.Stat(path)
		assert.NoError(t, err, "missing section file %s", name)
	}
}

func TestExportReportTopTermRows(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)
	require.NoError(t, exporter.ExportReport(sampleReport()))

	rows := readCSV(t, filepath.Join(dir, "top_terms_2024-06-01_2024-06-07.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"normalized_term", "original_term", "search_count", "percentage"}, rows[0])
	assert.Equal(t, []string{"modle3", "Modle3", "2", "40.0000"}, rows[1])
}

func TestExportReportTypoAlternatesJoined(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)
	require.NoError(t, exporter.ExportReport(sampleReport()))

	rows := readCSV(t, filepath.Join(dir, "typo_suggestions_2024-06-01_2024-06-07.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"modle3", "model3", "model x", "2"}, rows[1])
}

func TestExportReportSummaryMetrics(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir)
	require.NoError(t, exporter.ExportReport(sampleReport()))

	rows := readCSV(t, filepath.Join(dir, "summary_2024-06-01_2024-06-07.csv"))
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"avg_zero_result_rate", "0.2500"}, rows[4])
	assert.Equal(t, []string{"malformed_records", "1"}, rows[5])
}

func TestExportReportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	exporter := NewCSVExporter(dir)

	require.NoError(t, exporter.ExportReport(sampleReport()))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
