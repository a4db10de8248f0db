package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/agent-resource-manager/internal/balancer"
	"github.com/OldStager01/agent-resource-manager/internal/manager"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

type TaskHandler struct {
	manager *manager.Manager
}

func NewTaskHandler(m *manager.Manager) *TaskHandler {
	return &TaskHandler{manager: m}
}

type AssignRequest struct {
	TaskID string `json:"task_id"`
}

type AssignResponse struct {
	TaskID  string `json:"task_id"`
	AgentID string `json:"agent_id"`
}

// Assign selects an agent for one task. An empty pool yields 503 so the
// caller knows to retry or queue; the request is never answered with a
// fabricated agent.
func (h *TaskHandler) Assign(c *gin.Context) {
	// Body is optional; a task id is generated when absent.
	var req AssignRequest
	_ = c.ShouldBindJSON(&req)
	if req.TaskID == "" {
		req.TaskID = models.NewUUID()
	}

	agentID, err := h.manager.AssignTask(c.Request.Context(), req.TaskID)
	if err != nil {
		if errors.Is(err, balancer.ErrEmptyPool) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "no agents available",
				"task_id": req.TaskID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AssignResponse{
		TaskID:  req.TaskID,
		AgentID: agentID,
	})
}
