package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version reported by the health endpoint.
const Version = "authkit-1.0"

// Pinger reports storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles the liveness endpoint.
type Health struct {
	db Pinger
}

// NewHealth creates a new Health handler.
func NewHealth(db Pinger) *Health {
	return &Health{db: db}
}

// Status reports process liveness and storage connectivity.
func (h *Health) Status(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "version": Version})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "version": Version})
}
