package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"office-booking/models"
	"office-booking/services"
)

type AdminHandler struct {
	bookings *services.BookingService
}

func NewAdminHandler(bookings *services.BookingService) *AdminHandler {
	return &AdminHandler{bookings: bookings}
}

// ResetKarma - restore every user to the default karma score
func (h *AdminHandler) ResetKarma(e *core.RequestEvent) error {
	h.bookings.ResetKarmaPoints()
	return e.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// RemoveBooking - delete one booking record outright
func (h *AdminHandler) RemoveBooking(e *core.RequestEvent) error {
	if err := h.bookings.RemoveBooking(e.Request.PathValue("bookingId")); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]string{"status": "removed"})
}

// ClearResource - delete every booking held on one resource
func (h *AdminHandler) ClearResource(e *core.RequestEvent) error {
	removed := h.bookings.RemoveBookingsByResource(e.Request.PathValue("resourceId"))
	return e.JSON(http.StatusOK, map[string]any{"removed": removed})
}

// ClearKind - delete every booking of one resource kind
func (h *AdminHandler) ClearKind(e *core.RequestEvent) error {
	kind := models.ResourceKind(e.Request.PathValue("kind"))
	switch kind {
	case models.ResourceDesk, models.ResourceRoom:
	default:
		return apis.NewBadRequestError("Unknown resource kind", nil)
	}

	removed := h.bookings.RemoveBookingsByKind(kind)
	return e.JSON(http.StatusOK, map[string]any{"removed": removed})
}

// GetDashboard - engine counters for the admin view
func (h *AdminHandler) GetDashboard(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, h.bookings.Stats())
}
