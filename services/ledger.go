package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"office-booking/internal/status"
	"office-booking/models"
	"office-booking/utils"
)

// Ledger owns every booking record. The request queue and waiting lists
// hold only booking ids; a deleted booking leaves stale ids behind that
// readers skip lazily instead of rebuilding their structures.
type Ledger struct {
	bookings map[string]*models.Booking
}

func NewLedger() *Ledger {
	return &Ledger{bookings: make(map[string]*models.Booking)}
}

// Create records a new pending booking. createdAt and deadline are passed
// in so group fan-out bookings can share the primary's timestamps.
func (l *Ledger) Create(user *models.User, resource *models.Resource, tr models.TimeRange,
	coworkers []*models.User, createdAt, deadline time.Time) (*models.Booking, error) {

	refCode, err := utils.GenerateCode(4)
	if err != nil {
		return nil, fmt.Errorf("generate ref code: %w", err)
	}

	booking := &models.Booking{
		ID:              uuid.NewString(),
		User:            user,
		Resource:        resource,
		Time:            tr,
		Status:          models.StatusPending,
		CreatedAt:       createdAt,
		CheckInDeadline: deadline,
		RefCode:         refCode,
		Coworkers:       coworkers,
	}

	l.bookings[booking.ID] = booking
	return booking, nil
}

func (l *Ledger) Get(id string) (*models.Booking, error) {
	booking, ok := l.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, status.ErrNotFound)
	}
	return booking, nil
}

func (l *Ledger) Remove(id string) error {
	if _, ok := l.bookings[id]; !ok {
		return fmt.Errorf("booking %s: %w", id, status.ErrNotFound)
	}
	delete(l.bookings, id)
	return nil
}

// RemoveByResource deletes every booking on one resource and reports how
// many were removed. Administrative reset tooling, not steady-state.
func (l *Ledger) RemoveByResource(resourceID string) int {
	removed := 0
	for id, b := range l.bookings {
		if b.Resource.ID == resourceID {
			delete(l.bookings, id)
			removed++
		}
	}
	return removed
}

// RemoveByKind deletes every booking on resources of one kind.
func (l *Ledger) RemoveByKind(kind models.ResourceKind) int {
	removed := 0
	for id, b := range l.bookings {
		if b.Resource.Kind == kind {
			delete(l.bookings, id)
			removed++
		}
	}
	return removed
}

// OverlapExists reports whether any active booking on the resource,
// other than excludeID, overlaps the given range.
func (l *Ledger) OverlapExists(resourceID string, tr models.TimeRange, excludeID string) bool {
	for _, b := range l.bookings {
		if b.ID == excludeID {
			continue
		}
		if b.Resource.ID == resourceID && b.Active() && b.Time.Overlaps(tr) {
			return true
		}
	}
	return false
}

// Occupied reports whether the resource has any active booking at all,
// other than excludeID. Desk availability is all-or-nothing per day for
// solo requests, so no overlap check happens here.
func (l *Ledger) Occupied(resourceID string, excludeID string) bool {
	for _, b := range l.bookings {
		if b.ID == excludeID {
			continue
		}
		if b.Resource.ID == resourceID && b.Active() {
			return true
		}
	}
	return false
}

func (l *Ledger) Len() int {
	return len(l.bookings)
}

func (l *Ledger) CountByStatus() map[models.BookingStatus]int {
	counts := make(map[models.BookingStatus]int)
	for _, b := range l.bookings {
		counts[b.Status]++
	}
	return counts
}
