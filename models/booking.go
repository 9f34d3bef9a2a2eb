package models

import (
	"time"
)

type ResourceKind string

const (
	ResourceDesk ResourceKind = "desk"
	ResourceRoom ResourceKind = "room"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusMissed    BookingStatus = "missed"
	StatusCompleted BookingStatus = "completed"
)

// Terminal reports whether the status can never change again.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCancelled, StatusMissed, StatusCompleted:
		return true
	}
	return false
}

// TimeRange is a half-open [Start, End) interval.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	KarmaPoints int    `json:"karma_points"`
}

// DeductKarma lowers the score by points, never below zero.
func (u *User) DeductKarma(points int) {
	u.KarmaPoints -= points
	if u.KarmaPoints < 0 {
		u.KarmaPoints = 0
	}
}

type Resource struct {
	ID       string       `json:"id"`
	Kind     ResourceKind `json:"kind"`
	Location string       `json:"location"`
	// DeskFamily groups desks that count as adjacent for group bookings.
	// Empty for rooms.
	DeskFamily string `json:"desk_family,omitempty"`
}

type Booking struct {
	ID              string        `json:"id"`
	User            *User         `json:"user"`
	Resource        *Resource     `json:"resource"`
	Time            TimeRange     `json:"time"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	CheckInDeadline time.Time     `json:"check_in_deadline"`
	RefCode         string        `json:"ref_code"`
	// Coworkers is non-empty only on the primary booking of a group request.
	Coworkers []*User `json:"coworkers,omitempty"`
}

// Active reports whether the booking currently counts against its resource.
func (b *Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
