package entities

import (
	"time"
)

// Event names emitted by the search frontend.
const (
	EventSearchSubmit = "global_search_submit"
	EventResultClick  = "search_result_click"
)

// SearchEvent represents a single logged search interaction.
type SearchEvent struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	EventDate      time.Time `json:"event_date" db:"event_date"`
	EventTimestamp time.Time `json:"event_timestamp" db:"event_timestamp"`
	SearchTerm     string    `json:"search_term" db:"search_term"`
	ResultCount    int       `json:"result_count" db:"result_count"`
	Region         string    `json:"region" db:"region"`
	DeviceCategory string    `json:"device_category" db:"device_category"`
	EventName      string    `json:"event_name" db:"event_name"`
	EventCategory  string    `json:"event_category" db:"event_category"`
	ClickPosition  int       `json:"click_position,omitempty" db:"click_position"`
	SessionID      string    `json:"session_id,omitempty" db:"session_id"`
}

// IsZeroResult reports whether the event is a search that returned nothing.
func (e *SearchEvent) IsZeroResult() bool {
	return e.EventName == EventSearchSubmit && e.ResultCount == 0
}
