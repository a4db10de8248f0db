package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/agent-resource-manager/internal/provider"
	"github.com/OldStager01/agent-resource-manager/pkg/store"
)

type HealthHandler struct {
	provider provider.MetricsProvider
	db       *store.DB
}

func NewHealthHandler(p provider.MetricsProvider, db *store.DB) *HealthHandler {
	return &HealthHandler{provider: p, db: db}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status := "healthy"

	if err := h.provider.HealthCheck(ctx); err != nil {
		checks["provider"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["provider"] = "healthy"
	}

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			checks["store"] = "unhealthy: " + err.Error()
			status = "unhealthy"
		} else {
			checks["store"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
