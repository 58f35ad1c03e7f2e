package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"staysphere-backend/internal/apperror"
	"staysphere-backend/internal/availability"
	"staysphere-backend/internal/booking"
	"staysphere-backend/internal/directory"
	"staysphere-backend/internal/mw"
)

// Deps are the services the handlers call into.
type Deps struct {
	Ledger    *booking.Ledger
	Engine    *availability.Engine
	Directory directory.Directory
	DB        *gorm.DB
	WebPush   *webpush.Options
	Log       zerolog.Logger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	ledger  *booking.Ledger
	engine  *availability.Engine
	dir     directory.Directory
	db      *gorm.DB
	webpush *webpush.Options
	log     zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		ledger:  deps.Ledger,
		engine:  deps.Engine,
		dir:     deps.Directory,
		db:      deps.DB,
		webpush: deps.WebPush,
		log:     deps.Log,
	}
}

// respondError writes err with the status its apperror carries. Unclassified
// errors are logged and reported as a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperror.StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("request_id", c.GetString(mw.RequestIDHeader)).
			Str("path", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func isNotAvailable(err error) bool {
	return errors.Is(err, apperror.ErrNotAvailable)
}
