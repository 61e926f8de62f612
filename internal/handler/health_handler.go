package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pricewise/pricewise-api/internal/utils"
)

var startTime = time.Now()

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
	storageDriver string
	checks        map[string]HealthCheck
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storageDriver string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{storageDriver: storageDriver, checks: checks}
}

// GetHealth responds with service and dependency status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := gin.H{}
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = gin.H{"status": "disconnected", "error": err.Error()}
			healthy = false
			continue
		}
		deps[name] = gin.H{"status": "connected"}
	}

	status, code, msg := "healthy", http.StatusOK, "Service is healthy"
	if !healthy {
		status, code, msg = "degraded", http.StatusServiceUnavailable, "Service is degraded"
	}
	utils.Success(c, code, msg, gin.H{
		"status":       status,
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"storage":      h.storageDriver,
		"dependencies": deps,
	})
}
