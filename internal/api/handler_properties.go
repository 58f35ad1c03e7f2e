package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staysphere-backend/internal/parse"
)

// ListProperties handles GET /api/properties.
func (h *Handler) ListProperties(c *gin.Context) {
	properties, err := h.dir.Properties(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetProperty handles GET /api/properties/:property_id.
func (h *Handler) GetProperty(c *gin.Context) {
	id, err := parse.ID(c.Param("property_id"), "property_id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	property, err := h.dir.Property(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	host, err := h.dir.Host(ctx, property.HostID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property, "host": host})
}
