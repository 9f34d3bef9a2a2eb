package models

import (
	"time"
)

// WaitlistEntry is a read-only view of one waiting-list position.
type WaitlistEntry struct {
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	KarmaPoints int       `json:"karma_points"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

type WaitlistSnapshot struct {
	Scope   string          `json:"scope"`
	Entries []WaitlistEntry `json:"entries"`
}

// EngineStats is the dashboard/metrics view of the allocation engine.
type EngineStats struct {
	QueueDepth       int                   `json:"queue_depth"`
	WaitlistDepths   map[string]int        `json:"waitlist_depths"`
	BookingsByStatus map[BookingStatus]int `json:"bookings_by_status"`
	LastUpdated      time.Time             `json:"last_updated"`
}
