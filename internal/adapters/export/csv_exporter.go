package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/searchpulse/backend/internal/domain/entities"
)

// CSVExporter writes each report section to its own CSV file inside a
// target directory, one file per section.
type CSVExporter struct {
	dir string
}

// NewCSVExporter creates an exporter rooted at dir. The directory is
// created on the first export if it does not exist.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{dir: dir}
}

// ExportReport writes every section of the report. File names carry the
// report window so successive runs do not overwrite each other.
func (e *CSVExporter) ExportReport(report *entities.ContentGapReport) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	window := fmt.Sprintf("%s_%s",
		report.StartDate.Format("2006-01-02"),
		report.EndDate.Format("2006-01-02"))

	sections := []struct {
		name string
		rows [][]string
	}{
		{"top_terms", topTermRows(report.TopZeroResultTerms)},
		{"typo_suggestions", typoRows(report.TypoSuggestions)},
		{"regional_analysis", regionalRows(report.RegionalAnalysis)},
		{"category_breakdown", categoryRows(report.CategoryBreakdown)},
		{"trend_over_time", trendRows(report.TrendOverTime)},
		{"summary", summaryRows(report.Summary)},
	}

	for _, section := range sections {
		path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.csv", section.name, window))
		if err := writeCSV(path, section.rows); err != nil {
			return fmt.Errorf("failed to export %s: %w", section.name, err)
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func topTermRows(terms []entities.TermFrequency) [][]string {
	rows := [][]string{{"normalized_term", "original_term", "search_count", "percentage"}}
	for _, t := range terms {
		rows = append(rows, []string{
			t.NormalizedTerm,
			t.OriginalTerm,
			strconv.Itoa(t.SearchCount),
			formatFloat(t.Percentage),
		})
	}
	return rows
}

func typoRows(suggestions []entities.TypoSuggestion) [][]string {
	rows := [][]string{{"zero_result_term", "suggested_correction", "alternate_suggestions", "frequency"}}
	for _, s := range suggestions {
		rows = append(rows, []string{
			s.ZeroResultTerm,
			s.SuggestedCorrection,
			strings.Join(s.AlternateSuggestions, "; "),
			strconv.Itoa(s.Frequency),
		})
	}
	return rows
}

func regionalRows(buckets []entities.RegionalBucket) [][]string {
	rows := [][]string{{"region", "zero_result_count", "unique_users"}}
	for _, b := range buckets {
		rows = append(rows, []string{
			b.Region,
			strconv.Itoa(b.ZeroResultCount),
			strconv.Itoa(b.UniqueUsers),
		})
	}
	return rows
}

func categoryRows(counts []entities.CategoryCount) [][]string {
	rows := [][]string{{"category", "search_count", "unique_users"}}
	for _, c := range counts {
		rows = append(rows, []string{
			c.Category,
			strconv.Itoa(c.SearchCount),
			strconv.Itoa(c.UniqueUsers),
		})
	}
	return rows
}

func trendRows(points []entities.DailyTrendPoint) [][]string {
	rows := [][]string{{"date", "total_searches", "zero_result_searches", "zero_result_rate"}}
	for _, p := range points {
		rows = append(rows, []string{
			p.Date.Format("2006-01-02"),
			strconv.Itoa(p.TotalSearches),
			strconv.Itoa(p.ZeroResultCount),
			formatFloat(p.ZeroResultRate),
		})
	}
	return rows
}

func summaryRows(summary entities.ReportSummary) [][]string {
	return [][]string{
		{"metric", "value"},
		{"total_zero_result_searches", strconv.Itoa(summary.TotalZeroResultSearches)},
		{"unique_zero_result_terms", strconv.Itoa(summary.UniqueZeroResultTerms)},
		{"affected_users", strconv.Itoa(summary.AffectedUsers)},
		{"avg_zero_result_rate", formatFloat(summary.AvgZeroResultRate)},
		{"malformed_records", strconv.Itoa(summary.MalformedRecords)},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
