package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staysphere-backend/internal/model"
	"staysphere-backend/internal/parse"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription registers or refreshes a guest's browser push endpoint.
func (h *Handler) PutSubscription(c *gin.Context) {
	guestID, err := parse.ID(c.Param("guest_id"), "guest_id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if _, err := h.dir.Guest(c.Request.Context(), guestID); err != nil {
		h.respondError(c, err)
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		GuestID:  guestID,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	err = h.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"guest_id", "p256dh", "auth"}),
	}).Create(&subscription).Error
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes one of a guest's push endpoints.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	guestID, err := parse.ID(c.Param("guest_id"), "guest_id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err = h.db.WithContext(c.Request.Context()).
		Where("endpoint = ? AND guest_id = ?", req.Endpoint, guestID).
		Delete(&model.PushSubscription{}).Error
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam reads key from the raw query without URL-decoding it, since
// push endpoints are compared byte for byte.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription reports whether an endpoint is registered for the guest.
func (h *Handler) GetSubscription(c *gin.Context) {
	guestID, err := parse.ID(c.Param("guest_id"), "guest_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	var subscription model.PushSubscription
	err = h.db.WithContext(c.Request.Context()).
		First(&subscription, "endpoint = ? AND guest_id = ?", raw, guestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoint": subscription.Endpoint, "guest_id": subscription.GuestID})
}
