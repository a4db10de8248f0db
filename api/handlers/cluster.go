package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/agent-resource-manager/internal/manager"
)

type ClusterHandler struct {
	manager *manager.Manager
}

func NewClusterHandler(m *manager.Manager) *ClusterHandler {
	return &ClusterHandler{manager: m}
}

func (h *ClusterHandler) Get(c *gin.Context) {
	cm, err := h.manager.ClusterSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cm)
}

func (h *ClusterHandler) Agents(c *gin.Context) {
	agents, err := h.manager.AgentSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agents": agents,
		"count":  len(agents),
	})
}
