package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"office-booking/internal/status"
	"office-booking/services"
)

type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type submitBookingRequest struct {
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Coworkers  []string  `json:"coworkers,omitempty"`
}

// apiError maps engine errors onto HTTP status codes.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError(err.Error(), err)
	case errors.Is(err, status.ErrInvalidTimeRange):
		return apis.NewBadRequestError(err.Error(), err)
	case errors.Is(err, status.ErrAlreadyFinal):
		return apis.NewApiError(http.StatusConflict, err.Error(), err)
	default:
		return apis.NewBadRequestError(err.Error(), err)
	}
}

// SubmitBooking - queue a desk request for the next allocation pass
func (h *BookingHandler) SubmitBooking(e *core.RequestEvent) error {
	var req submitBookingRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	booking, err := h.bookings.SubmitBooking(req.UserID, req.ResourceID, req.Start, req.End, req.Coworkers)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusAccepted, map[string]any{
		"booking_id": booking.ID,
		"ref_code":   booking.RefCode,
		"status":     booking.Status,
		"deadline":   booking.CheckInDeadline,
	})
}

// SubmitRoomBooking - queue a meeting-room request
func (h *BookingHandler) SubmitRoomBooking(e *core.RequestEvent) error {
	var req submitBookingRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	booking, err := h.bookings.SubmitRoomBooking(req.UserID, req.ResourceID, req.Start, req.End)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusAccepted, map[string]any{
		"booking_id": booking.ID,
		"ref_code":   booking.RefCode,
		"status":     booking.Status,
		"deadline":   booking.CheckInDeadline,
	})
}

// GetBooking - look up one booking by id
func (h *BookingHandler) GetBooking(e *core.RequestEvent) error {
	booking, err := h.bookings.QueryBooking(e.Request.PathValue("bookingId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, booking)
}

// DrainQueue - run one allocation pass over the queued requests
func (h *BookingHandler) DrainQueue(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, h.bookings.DrainQueue())
}

// CheckIn - confirm arrival before the deadline
func (h *BookingHandler) CheckIn(e *core.RequestEvent) error {
	ok, err := h.bookings.CheckIn(e.Request.PathValue("bookingId"), time.Now())
	if err != nil {
		return apiError(err)
	}

	if !ok {
		return e.JSON(http.StatusOK, map[string]any{
			"checked_in": false,
			"reason":     "check-in deadline passed; booking marked missed",
		})
	}
	return e.JSON(http.StatusOK, map[string]any{"checked_in": true})
}

// Cancel - cancel a booking, applying the karma penalty
func (h *BookingHandler) Cancel(e *core.RequestEvent) error {
	penalty, err := h.bookings.Cancel(e.Request.PathValue("bookingId"), time.Now())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"penalty": penalty})
}

// GetWaitlists - snapshot of every waiting list, best ranked first
func (h *BookingHandler) GetWaitlists(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, h.bookings.WaitlistSnapshots())
}
