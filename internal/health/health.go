package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	db      *gorm.DB
	service string
}

// NewHandler creates a health Handler for the given service name.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{db: db, service: service}
}

// RegisterRoutes registers the probe endpoints on the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Live)
	r.GET("/readyz", h.Ready)
}

// Live reports that the process is running.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready reports whether the database is reachable.
func (h *Handler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service})
}
