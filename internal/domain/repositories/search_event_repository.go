package repositories

import (
	"context"
	"time"

	"github.com/searchpulse/backend/internal/domain/entities"
)

// EventBatch is the result of one log query. Rows missing required fields
// are skipped rather than aborting the batch; Skipped counts them.
type EventBatch struct {
	Events  []*entities.SearchEvent
	Skipped int
}

// SearchEventRepository is the port to the search event log. The source is
// assumed to be pre-filtered to the relevant event category; query methods
// only apply the date range and result-count predicates.
type SearchEventRepository interface {
	// LogEvent appends one search event to the log.
	LogEvent(ctx context.Context, event *entities.SearchEvent) error

	// ZeroResultEvents returns search submissions with a result count of
	// zero in the window, ordered by event date descending.
	ZeroResultEvents(ctx context.Context, start, end time.Time) (*EventBatch, error)

	// SuccessfulEvents returns search submissions with at least one result
	// in the window. This is the typo correction corpus.
	SuccessfulEvents(ctx context.Context, start, end time.Time) (*EventBatch, error)

	// SearchEvents returns all search-related events in the window,
	// including result clicks, ordered by user and timestamp.
	SearchEvents(ctx context.Context, start, end time.Time) (*EventBatch, error)

	// DailySearchCounts returns per-day totals of submissions and
	// zero-result submissions over the full log, ordered by date ascending.
	DailySearchCounts(ctx context.Context, start, end time.Time) ([]entities.DailySearchCount, error)
}
