package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"staysphere-backend/internal/mw"
)

// RouterConfig tunes the middleware in front of the handlers.
type RouterConfig struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	RequestIPHeader string
	CacheTTL        time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), mw.RequestID())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	// Directory responses change only when fixtures are reloaded.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	r.GET("/healthz", handler.Healthz)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/properties", caching, handler.ListProperties)
		api.GET("/properties/:property_id", caching, handler.GetProperty)
		api.GET("/properties/:property_id/calendar", handler.GetCalendar)
		api.PUT("/properties/:property_id/calendar", handler.PutCalendar)
		api.GET("/properties/:property_id/availability", handler.GetAvailability)
		api.GET("/properties/:property_id/bookings", handler.ListPropertyBookings)

		api.GET("/hosts/:host_id/bookings", handler.ListHostBookings)
		api.GET("/guests/:guest_id/bookings", handler.ListGuestBookings)

		api.POST("/bookings", handler.CreateBooking)
		api.GET("/bookings/:booking_id", handler.GetBooking)
		api.GET("/bookings/:booking_id/events", handler.GetBookingEvents)
		api.POST("/bookings/:booking_id/transitions", handler.TransitionBooking)

		api.GET("/guests/:guest_id/subscriptions", handler.GetSubscription)
		api.PUT("/guests/:guest_id/subscriptions", handler.PutSubscription)
		api.DELETE("/guests/:guest_id/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
