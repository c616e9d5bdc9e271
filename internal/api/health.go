package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status  string         `json:"status"`
	Storage string         `json:"storage"`
	Driver  string         `json:"driver"`
	Time    string         `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	driver  string
	checker HealthChecker
}

// NewHealthHandler creates a new health check handler. A nil checker means the
// storage driver has nothing external to probe.
func NewHealthHandler(driver string, checker HealthChecker) *HealthHandler {
	return &HealthHandler{driver: driver, checker: checker}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Driver:  h.driver,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Details: make(map[string]any),
	}

	if h.checker != nil {
		if err := h.checker.Health(ctx); err != nil {
			response.Status = "degraded"
			response.Storage = "unhealthy"
			response.Details["storage_error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}

	response.Storage = "healthy"
	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, driver string, checker HealthChecker) {
	handler := NewHealthHandler(driver, checker)
	apiGroup.GET("/health", handler.Check)
}
