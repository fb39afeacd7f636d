package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	serviceName string
	version     string
	checks      map[string]HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(serviceName, version string, checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		checks:      checks,
	}
}

// Root identifies the service
// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.serviceName,
		"version": h.version,
		"docs":    "/api/v1/docs",
	})
}

// Health is the liveness probe; it never touches dependencies
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready is the readiness probe; every dependency must answer
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.HealthCheck(c.Request.Context()); err != nil {
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}

	body := gin.H{"status": "ok", "dependencies": deps}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
