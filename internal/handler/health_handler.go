package handler

import (
	"net/http"

	"skirmish/backend/internal/hub"
	"skirmish/backend/internal/session"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the plain request/response endpoints outside the
// realtime channel.
type HealthHandler struct {
	registry *session.Registry
	hub      *hub.Hub
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(registry *session.Registry, h *hub.Hub) *HealthHandler {
	return &HealthHandler{registry: registry, hub: h}
}

// Health reports process liveness plus live session and connection
// counts.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"sessionCount":    h.registry.SessionCount(),
		"connectionCount": h.hub.ConnectionCount(),
	})
}

// Root serves the service banner. Static client assets are deployed
// separately.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "skirmish sync server",
		"ws":      "/ws",
		"health":  "/health",
	})
}
