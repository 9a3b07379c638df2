package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limo-transfers/service-quote/internal/application"
)

// PingHandler serves the unauthenticated liveness and capability check.
type PingHandler struct {
	service      string
	resolver     *application.QuoteResolver
	cacheBackend string
	now          func() time.Time
}

// NewPingHandler creates a PingHandler. cacheBackend is reported as-is.
func NewPingHandler(service string, resolver *application.QuoteResolver, cacheBackend string) *PingHandler {
	return &PingHandler{
		service:      service,
		resolver:     resolver,
		cacheBackend: cacheBackend,
		now:          time.Now,
	}
}

// RegisterRoutes registers GET /api/ping.
func (h *PingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/ping", h.Ping)
}

// Ping handles GET /api/ping.
func (h *PingHandler) Ping(c *gin.Context) {
	maps, cached := h.resolver.Capabilities()
	backend := "none"
	if cached {
		backend = h.cacheBackend
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": h.service,
		"time":    h.now().UTC().Format(time.RFC3339),
		"maps":    maps,
		"cache":   backend,
	})
}
