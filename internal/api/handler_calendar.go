package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/calendar"
	"staysphere-backend/internal/parse"
)

// GetCalendar handles GET /api/properties/:property_id/calendar?start=&end=.
// Both bounds are inclusive.
func (h *Handler) GetCalendar(c *gin.Context) {
	propertyID, err := parse.ID(c.Param("property_id"), "property_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	start, err := parse.Date(c.Query("start"), "start")
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := parse.Date(c.Query("end"), "end")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := calendar.ValidateRange(start, end); err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.dir.Property(ctx, propertyID); err != nil {
		h.respondError(c, err)
		return
	}
	records, err := h.engine.Calendar(ctx, propertyID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

type putCalendarRequest struct {
	HostID int64  `json:"host_id" binding:"required"`
	Start  string `json:"start" binding:"required"`
	End    string `json:"end" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// PutCalendar handles PUT /api/properties/:property_id/calendar, a host
// opening or blocking a closed range of dates.
func (h *Handler) PutCalendar(c *gin.Context) {
	propertyID, err := parse.ID(c.Param("property_id"), "property_id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req putCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	start, err := parse.Date(req.Start, "start")
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, err := parse.Date(req.End, "end")
	if err != nil {
		h.respondError(c, err)
		return
	}
	status, err := parse.AvailabilityStatus(req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	property, err := h.dir.Property(ctx, propertyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if property.HostID != req.HostID {
		h.respondError(c, fmt.Errorf("%w: host %d does not own property %d", apperror.ErrPermissionDenied, req.HostID, propertyID))
		return
	}

	if err := h.engine.SetAvailability(ctx, propertyID, start, end, status); err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info().Int64("property_id", propertyID).Stringer("start", start).Stringer("end", end).
		Str("status", string(status)).Msg("calendar updated")

	records, err := h.engine.Calendar(ctx, propertyID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetAvailability handles GET /api/properties/:property_id/availability?check_in=&check_out=.
func (h *Handler) GetAvailability(c *gin.Context) {
	propertyID, err := parse.ID(c.Param("property_id"), "property_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	checkIn, err := parse.Date(c.Query("check_in"), "check_in")
	if err != nil {
		h.respondError(c, err)
		return
	}
	checkOut, err := parse.Date(c.Query("check_out"), "check_out")
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.dir.Property(ctx, propertyID); err != nil {
		h.respondError(c, err)
		return
	}
	free, err := h.engine.IsRangeFree(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propertyId": propertyID,
		"checkIn":    checkIn,
		"checkOut":   checkOut,
		"nights":     checkIn.DaysUntil(checkOut),
		"available":  free,
	})
}
