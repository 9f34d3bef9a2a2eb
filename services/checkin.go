package services

import (
	"errors"
	"fmt"
	"log"

	"office-booking/internal/status"
	"office-booking/models"
	"time"
)

// CheckIn confirms an arrival. On or before the deadline the booking
// becomes confirmed and true is returned; past the deadline the booking
// is marked missed, its resource is released and false is returned.
func (s *BookingService) CheckIn(id string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.ledger.Get(id)
	if err != nil {
		return false, err
	}
	if booking.Status.Terminal() {
		return false, fmt.Errorf("booking %s: %w", id, status.ErrAlreadyFinal)
	}

	if !now.After(booking.CheckInDeadline) {
		booking.Status = models.StatusConfirmed
		return true, nil
	}

	booking.Status = models.StatusMissed
	s.release(booking)
	return false, nil
}

// Cancel applies the cancellation penalty to the owner's karma, marks
// the booking cancelled and releases its resource. Returns the penalty
// that was deducted.
func (s *BookingService) Cancel(id string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.ledger.Get(id)
	if err != nil {
		return 0, err
	}
	if booking.Status.Terminal() {
		return 0, fmt.Errorf("booking %s: %w", id, status.ErrAlreadyFinal)
	}

	penalty := CancellationPenalty(booking, now)
	booking.User.DeductKarma(penalty)
	s.monitor.TrackPenalty(penalty)

	booking.Status = models.StatusCancelled
	s.release(booking)
	return penalty, nil
}

// release promotes the best-ranked waiter for the freed resource. The
// released booking has already reached a terminal status, so a release
// happens exactly once per booking.
func (s *BookingService) release(released *models.Booking) {
	if released.Resource.Kind == models.ResourceDesk {
		s.promoteDeskWaiter(released.Resource)
		return
	}
	s.promoteRoomWaiter(released.Resource)
}

// promoteDeskWaiter pops the best shared-desk waiter and confirms it on
// the freed desk. Promotion is unconditional once popped: occupancy is
// not re-validated.
func (s *BookingService) promoteDeskWaiter(desk *models.Resource) {
	id, err := s.waitlists.PopBest(DeskScope)
	if err != nil {
		if !errors.Is(err, status.ErrEmptyWaitlist) {
			log.Printf("Error popping desk waitlist: %v", err)
		}
		return
	}

	waiter, err := s.ledger.Get(id)
	if err != nil {
		return
	}
	waiter.Resource = desk
	waiter.Status = models.StatusConfirmed
	s.monitor.TrackAllocation("desk", "promoted")
	log.Printf("Promoted booking %s onto desk %s", waiter.ID, desk.ID)
}

// promoteRoomWaiter pops entries until one fits the room's current
// schedule, confirms it and stops. Popped entries that no longer fit
// are consumed; if none fits, no promotion occurs.
func (s *BookingService) promoteRoomWaiter(room *models.Resource) {
	for {
		id, err := s.waitlists.PopBest(room.ID)
		if err != nil {
			if !errors.Is(err, status.ErrEmptyWaitlist) {
				log.Printf("Error popping waitlist for room %s: %v", room.ID, err)
			}
			return
		}

		candidate, err := s.ledger.Get(id)
		if err != nil {
			continue
		}
		if s.ledger.OverlapExists(room.ID, candidate.Time, candidate.ID) {
			continue
		}

		candidate.Status = models.StatusConfirmed
		s.monitor.TrackAllocation("room", "promoted")
		log.Printf("Promoted booking %s onto room %s", candidate.ID, room.ID)
		return
	}
}
