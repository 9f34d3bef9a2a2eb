package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office-booking/internal/status"
	"office-booking/models"
)

var testDay = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func fullDay() models.TimeRange {
	return models.TimeRange{Start: testDay, End: testDay.Add(8 * time.Hour)}
}

func morning() models.TimeRange {
	return models.TimeRange{Start: testDay, End: testDay.Add(3 * time.Hour)}
}

func afternoon() models.TimeRange {
	return models.TimeRange{Start: testDay.Add(3 * time.Hour), End: testDay.Add(8 * time.Hour)}
}

func TestLedger_CreateAndGet(t *testing.T) {
	ledger := NewLedger()
	user := &models.User{ID: "u1", KarmaPoints: 1000}
	desk := &models.Resource{ID: "d1", Kind: models.ResourceDesk, DeskFamily: "family1"}

	created := testDay.Add(-24 * time.Hour)
	deadline := testDay.Add(30 * time.Minute)

	booking, err := ledger.Create(user, desk, fullDay(), nil, created, deadline)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Len(t, booking.RefCode, 8)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, created, booking.CreatedAt)
	assert.Equal(t, deadline, booking.CheckInDeadline)

	got, err := ledger.Get(booking.ID)
	require.NoError(t, err)
	assert.Same(t, booking, got)
}

func TestLedger_GetUnknown(t *testing.T) {
	ledger := NewLedger()

	_, err := ledger.Get("missing")
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestLedger_Remove(t *testing.T) {
	ledger := NewLedger()
	user := &models.User{ID: "u1"}
	desk := &models.Resource{ID: "d1", Kind: models.ResourceDesk}

	booking, err := ledger.Create(user, desk, fullDay(), nil, testDay, testDay)
	require.NoError(t, err)

	require.NoError(t, ledger.Remove(booking.ID))
	_, err = ledger.Get(booking.ID)
	assert.ErrorIs(t, err, status.ErrNotFound)

	assert.ErrorIs(t, ledger.Remove(booking.ID), status.ErrNotFound)
}

func TestLedger_RemoveByResourceAndKind(t *testing.T) {
	ledger := NewLedger()
	user := &models.User{ID: "u1"}
	desk := &models.Resource{ID: "d1", Kind: models.ResourceDesk}
	room := &models.Resource{ID: "r1", Kind: models.ResourceRoom}

	_, err := ledger.Create(user, desk, morning(), nil, testDay, testDay)
	require.NoError(t, err)
	_, err = ledger.Create(user, desk, afternoon(), nil, testDay, testDay)
	require.NoError(t, err)
	_, err = ledger.Create(user, room, morning(), nil, testDay, testDay)
	require.NoError(t, err)

	assert.Equal(t, 2, ledger.RemoveByResource("d1"))
	assert.Equal(t, 1, ledger.Len())

	assert.Equal(t, 1, ledger.RemoveByKind(models.ResourceRoom))
	assert.Equal(t, 0, ledger.Len())
}

func TestLedger_OverlapExists(t *testing.T) {
	ledger := NewLedger()
	user := &models.User{ID: "u1"}
	room := &models.Resource{ID: "r1", Kind: models.ResourceRoom}

	booking, err := ledger.Create(user, room, morning(), nil, testDay, testDay)
	require.NoError(t, err)

	assert.True(t, ledger.OverlapExists("r1", morning(), ""))
	assert.False(t, ledger.OverlapExists("r1", afternoon(), ""))

	// The booking itself never blocks its own placement.
	assert.False(t, ledger.OverlapExists("r1", morning(), booking.ID))

	// Terminal bookings do not occupy the resource.
	booking.Status = models.StatusCancelled
	assert.False(t, ledger.OverlapExists("r1", morning(), ""))
}

func TestLedger_Occupied(t *testing.T) {
	ledger := NewLedger()
	user := &models.User{ID: "u1"}
	desk := &models.Resource{ID: "d1", Kind: models.ResourceDesk}

	booking, err := ledger.Create(user, desk, morning(), nil, testDay, testDay)
	require.NoError(t, err)

	// All-or-nothing: any active booking occupies the desk, regardless
	// of the slot asked about.
	assert.True(t, ledger.Occupied("d1", ""))
	assert.False(t, ledger.Occupied("d1", booking.ID))
	assert.False(t, ledger.Occupied("d2", ""))

	booking.Status = models.StatusMissed
	assert.False(t, ledger.Occupied("d1", ""))
}

func TestLedger_CountByStatus(t *testing.T) {
	ledger := NewLedger()
	user := &models.User{ID: "u1"}
	desk := &models.Resource{ID: "d1", Kind: models.ResourceDesk}

	a, _ := ledger.Create(user, desk, morning(), nil, testDay, testDay)
	b, _ := ledger.Create(user, desk, afternoon(), nil, testDay, testDay)
	a.Status = models.StatusConfirmed
	_ = b

	counts := ledger.CountByStatus()
	assert.Equal(t, 1, counts[models.StatusConfirmed])
	assert.Equal(t, 1, counts[models.StatusPending])
}
