package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/searchpulse/backend/internal/domain/entities"
	"github.com/searchpulse/backend/internal/domain/repositories"
	"github.com/searchpulse/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/searchpulse/backend/pkg/errors"
)

const searchEventsTable = "search_events"

var eventColumns = []interface{}{
	"id", "user_id", "event_date", "event_timestamp", "search_term",
	"result_count", "region", "device_category", "event_name",
	"event_category", "click_position", "session_id",
}

// SearchEventAdapter implements the search event log port in Postgres.
// The table is assumed to be pre-filtered to search events by ingestion;
// queries only apply the event-name, result-count and date predicates.
type SearchEventAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchEventAdapter creates a new search event adapter.
func NewSearchEventAdapter(client *postgres.Client) repositories.SearchEventRepository {
	return &SearchEventAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent appends one search event to the log.
func (a *SearchEventAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.EventTimestamp.IsZero() {
		event.EventTimestamp = time.Now().UTC()
	}
	if event.EventDate.IsZero() {
		event.EventDate = event.EventTimestamp.Truncate(24 * time.Hour)
	}

	record := goqu.Record{
		"id":              event.ID,
		"user_id":         event.UserID,
		"event_date":      event.EventDate,
		"event_timestamp": event.EventTimestamp,
		"search_term":     event.SearchTerm,
		"result_count":    event.ResultCount,
		"region":          event.Region,
		"device_category": event.DeviceCategory,
		"event_name":      event.EventName,
		"event_category":  event.EventCategory,
		"click_position":  event.ClickPosition,
		"session_id":      sql.NullString{String: event.SessionID, Valid: event.SessionID != ""},
	}

	query, args, err := a.db.Insert(searchEventsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build event insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}
	return nil
}

// ZeroResultEvents returns submissions with no results, date-descending.
func (a *SearchEventAdapter) ZeroResultEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	query, args, err := a.db.From(searchEventsTable).
		Select(eventColumns...).
		Where(
			goqu.C("event_name").Eq(entities.EventSearchSubmit),
			goqu.C("result_count").Eq(0),
			goqu.C("event_date").Between(goqu.Range(start, end)),
		).
		Order(goqu.C("event_date").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build zero-result query", err)
	}
	return a.queryEvents(ctx, query, args)
}

// SuccessfulEvents returns submissions that found at least one result.
func (a *SearchEventAdapter) SuccessfulEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	query, args, err := a.db.From(searchEventsTable).
		Select(eventColumns...).
		Where(
			goqu.C("event_name").Eq(entities.EventSearchSubmit),
			goqu.C("result_count").Gt(0),
			goqu.C("event_date").Between(goqu.Range(start, end)),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build successful-search query", err)
	}
	return a.queryEvents(ctx, query, args)
}

// SearchEvents returns all search events, ordered by user and timestamp.
func (a *SearchEventAdapter) SearchEvents(ctx context.Context, start, end time.Time) (*repositories.EventBatch, error) {
	query, args, err := a.db.From(searchEventsTable).
		Select(eventColumns...).
		Where(goqu.C("event_date").Between(goqu.Range(start, end))).
		Order(goqu.C("user_id").Asc(), goqu.C("event_timestamp").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search events query", err)
	}
	return a.queryEvents(ctx, query, args)
}

// DailySearchCounts aggregates submissions per day over the full log.
func (a *SearchEventAdapter) DailySearchCounts(ctx context.Context, start, end time.Time) ([]entities.DailySearchCount, error) {
	query, args, err := a.db.From(searchEventsTable).
		Select(
			goqu.C("event_date"),
			goqu.COUNT(goqu.Star()).As("total_searches"),
			goqu.L("SUM(CASE WHEN result_count = 0 THEN 1 ELSE 0 END)").As("zero_result_searches"),
		).
		Where(
			goqu.C("event_name").Eq(entities.EventSearchSubmit),
			goqu.C("event_date").Between(goqu.Range(start, end)),
		).
		GroupBy(goqu.C("event_date")).
		Order(goqu.C("event_date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build daily counts query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query daily counts", err)
	}
	defer rows.Close()

	var counts []entities.DailySearchCount
	for rows.Next() {
		var c entities.DailySearchCount
		if err := rows.Scan(&c.Date, &c.TotalSearches, &c.ZeroResultCount); err != nil {
			return nil, apperrors.NewInternalError("failed to scan daily count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read daily counts", err)
	}
	return counts, nil
}

// queryEvents scans rows into events. Rows with NULL required fields
// (user, term, date, result count) are skipped and counted instead of
// aborting the batch.
func (a *SearchEventAdapter) queryEvents(ctx context.Context, query string, args []interface{}) (*repositories.EventBatch, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query search events", err)
	}
	defer rows.Close()

	batch := &repositories.EventBatch{}
	for rows.Next() {
		var (
			id, eventName, eventCategory       sql.NullString
			userID, term, region, device, sess sql.NullString
			eventDate, eventTimestamp          sql.NullTime
			resultCount, clickPosition         sql.NullInt64
		)
		err := rows.Scan(
			&id, &userID, &eventDate, &eventTimestamp, &term,
			&resultCount, &region, &device, &eventName,
			&eventCategory, &clickPosition, &sess,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}

		if !userID.Valid || !term.Valid || !eventDate.Valid || !resultCount.Valid {
			batch.Skipped++
			continue
		}

		batch.Events = append(batch.Events, &entities.SearchEvent{
			ID:             id.String,
			UserID:         userID.String,
			EventDate:      eventDate.Time,
			EventTimestamp: eventTimestamp.Time,
			SearchTerm:     term.String,
			ResultCount:    int(resultCount.Int64),
			Region:         region.String,
			DeviceCategory: device.String,
			EventName:      eventName.String,
			EventCategory:  eventCategory.String,
			ClickPosition:  int(clickPosition.Int64),
			SessionID:      sess.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read search events", err)
	}
	return batch, nil
}
