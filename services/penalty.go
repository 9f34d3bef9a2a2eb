package services

import (
	"time"

	"github.com/shopspring/decimal"

	"office-booking/models"
)

const (
	maxPenalty      = 100
	latePenaltyBase = 10
)

// CancellationPenalty maps a booking and the cancellation instant to a
// karma deduction. More than a day of notice is free; cancelling at or
// after the start costs the full penalty; in between the cost ramps
// linearly from the base toward the maximum:
//
//	penalty = min(100, 10 + floor((24 - hoursUntilStart) * 90/24))
//
// The ramp is computed with decimals so the on-the-hour boundary values
// stay exact.
func CancellationPenalty(booking *models.Booking, now time.Time) int {
	hoursUntilStart := booking.Time.Start.Sub(now).Hours()

	if hoursUntilStart <= 0 {
		return maxPenalty
	}
	if hoursUntilStart >= 24 {
		return 0
	}

	hours := decimal.NewFromFloat(hoursUntilStart)
	ramp := decimal.NewFromInt(24).
		Sub(hours).
		Mul(decimal.NewFromInt(90)).
		Div(decimal.NewFromInt(24)).
		Floor()

	penalty := latePenaltyBase + int(ramp.IntPart())
	if penalty > maxPenalty {
		penalty = maxPenalty
	}
	return penalty
}
