package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"staysphere-backend/internal/booking"
	"staysphere-backend/internal/model"
	"staysphere-backend/internal/parse"
)

type createBookingRequest struct {
	PropertyID int64  `json:"property_id" binding:"required"`
	GuestID    int64  `json:"guest_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	Guests     int    `json:"guests"`
}

// CreateBooking handles POST /api/bookings, a guest's request to stay.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	checkIn, err := parse.Date(req.CheckIn, "check_in")
	if err != nil {
		h.respondError(c, err)
		return
	}
	checkOut, err := parse.Date(req.CheckOut, "check_out")
	if err != nil {
		h.respondError(c, err)
		return
	}

	b, err := h.ledger.CreatePending(c.Request.Context(), booking.Request{
		PropertyID: req.PropertyID,
		GuestID:    req.GuestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking handles GET /api/bookings/:booking_id.
func (h *Handler) GetBooking(c *gin.Context) {
	id, err := parse.ID(c.Param("booking_id"), "booking_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	b, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingEvents handles GET /api/bookings/:booking_id/events.
func (h *Handler) GetBookingEvents(c *gin.Context) {
	id, err := parse.ID(c.Param("booking_id"), "booking_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	events, err := h.ledger.Events(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

type transitionRequest struct {
	Status    string `json:"status" binding:"required"`
	ActorRole string `json:"actor_role" binding:"required,oneof=host guest"`
	ActorID   int64  `json:"actor_id" binding:"required"`
}

// TransitionBooking handles POST /api/bookings/:booking_id/transitions.
//
// A confirm that lost its dates to another booking answers 409 with the
// now-declined booking alongside the error.
func (h *Handler) TransitionBooking(c *gin.Context) {
	id, err := parse.ID(c.Param("booking_id"), "booking_id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	target, err := parse.BookingStatus(req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	actor := booking.Actor{Role: booking.Role(req.ActorRole), ID: req.ActorID}
	b, err := h.ledger.Transition(c.Request.Context(), id, target, actor)
	if err != nil {
		if isNotAvailable(err) && b.Status == model.BookingDeclined {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "booking": b})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListPropertyBookings handles GET /api/properties/:property_id/bookings.
func (h *Handler) ListPropertyBookings(c *gin.Context) {
	h.listBookings(c, "property_id", h.ledger.ListByProperty)
}

// ListHostBookings handles GET /api/hosts/:host_id/bookings.
func (h *Handler) ListHostBookings(c *gin.Context) {
	h.listBookings(c, "host_id", h.ledger.ListByHost)
}

// ListGuestBookings handles GET /api/guests/:guest_id/bookings.
func (h *Handler) ListGuestBookings(c *gin.Context) {
	h.listBookings(c, "guest_id", h.ledger.ListByGuest)
}

func (h *Handler) listBookings(c *gin.Context, param string, list func(context.Context, int64) ([]model.Booking, error)) {
	id, err := parse.ID(c.Param(param), param)
	if err != nil {
		h.respondError(c, err)
		return
	}
	bookings, err := list(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
