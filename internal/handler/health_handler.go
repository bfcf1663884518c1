package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger reports whether the cache is reachable.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness, readiness and Prometheus endpoints.
type HealthHandler struct {
	metrics *service.MetricsService
	db      Pinger
	cache   CachePinger
}

// NewHealthHandler constructs the handler. cache may be nil when Redis is disabled.
func NewHealthHandler(metrics *service.MetricsService, db Pinger, cache CachePinger) *HealthHandler {
	return &HealthHandler{metrics: metrics, db: db, cache: cache}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe checking PostgreSQL and Redis
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// the catalog falls back to PostgreSQL, so Redis only degrades
			checks["cache"] = "degraded: " + err.Error()
		} else {
			checks["cache"] = "ok"
		}
	}
	label := "ready"
	if status != http.StatusOK {
		label = "unavailable"
	}
	c.JSON(status, gin.H{"status": label, "checks": checks})
}
