package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck reports whether a dependency is ready to serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checks map[string]ReadinessCheck
	names  []string
}

// NewHealthHandler creates a new HealthHandler with named readiness checks.
func NewHealthHandler(checks map[string]ReadinessCheck) *HealthHandler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return &HealthHandler{checks: checks, names: names}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Checks run in name order; the first failure is reported.
func (h *HealthHandler) Readiness(c *gin.Context) {
	for _, name := range h.names {
		if err := h.checks[name](c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": name + " not ready"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
