package providers

import (
	"context"

	"github.com/searchpulse/backend/internal/domain/entities"
)

// ReportEvent announces a completed report generation on the bus.
type ReportEvent struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	Summary     entities.ReportSummary `json:"summary"`
	GeneratedAt int64                  `json:"generated_at"`
}

// EventBus distributes report lifecycle events to downstream consumers
// (dashboards, alerting).
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *ReportEvent) error

	// Subscribe returns a channel receiving events published to channel
	// until ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan *ReportEvent, error)

	// Close shuts down the bus and all subscriptions
	Close() error
}
