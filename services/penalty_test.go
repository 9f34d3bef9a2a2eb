package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"office-booking/models"
)

func penaltyBooking(start time.Time) *models.Booking {
	return &models.Booking{
		ID:   "b1",
		User: &models.User{ID: "u1", KarmaPoints: 1000},
		Time: models.TimeRange{Start: start, End: start.Add(8 * time.Hour)},
	}
}

func TestCancellationPenalty_EarlyCancellationIsFree(t *testing.T) {
	start := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	b := penaltyBooking(start)

	assert.Equal(t, 0, CancellationPenalty(b, start.Add(-48*time.Hour)))
	assert.Equal(t, 0, CancellationPenalty(b, start.Add(-24*time.Hour)))
	assert.Equal(t, 0, CancellationPenalty(b, start.Add(-30*24*time.Hour)))
}

func TestCancellationPenalty_MissedOrStartedIsMaximal(t *testing.T) {
	start := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	b := penaltyBooking(start)

	assert.Equal(t, 100, CancellationPenalty(b, start))
	assert.Equal(t, 100, CancellationPenalty(b, start.Add(time.Hour)))
	assert.Equal(t, 100, CancellationPenalty(b, start.Add(3*24*time.Hour)))
}

func TestCancellationPenalty_LateRamp(t *testing.T) {
	start := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	b := penaltyBooking(start)

	// 12h notice: 10 + floor(12 * 90/24) = 55
	twelveHours := CancellationPenalty(b, start.Add(-12*time.Hour))
	assert.Equal(t, 55, twelveHours)
	assert.Greater(t, twelveHours, 10)
	assert.Less(t, twelveHours, 100)

	// Just inside the 24h window the ramp starts at the base.
	assert.Equal(t, 10, CancellationPenalty(b, start.Add(-23*time.Hour-59*time.Minute)))

	// 30 minutes of notice: 10 + floor(23.5 * 90/24) = 98
	assert.Equal(t, 98, CancellationPenalty(b, start.Add(-30*time.Minute)))
}

func TestCancellationPenalty_MonotonicAsStartApproaches(t *testing.T) {
	start := time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC)
	b := penaltyBooking(start)

	previous := -1
	for hours := 24; hours >= 1; hours-- {
		p := CancellationPenalty(b, start.Add(-time.Duration(hours)*time.Hour))
		assert.GreaterOrEqual(t, p, previous, "penalty must not drop at %dh notice", hours)
		assert.LessOrEqual(t, p, 100)
		previous = p
	}
}
