package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/agent-resource-manager/internal/policy"
)

type PolicyHandler struct {
	policy *policy.Policy
}

func NewPolicyHandler(p *policy.Policy) *PolicyHandler {
	return &PolicyHandler{policy: p}
}

type PolicyStatusResponse struct {
	State              policy.State `json:"state"`
	CooldownRemaining  string       `json:"cooldown_remaining"`
	ScaleUpThreshold   int          `json:"scale_up_threshold"`
	ScaleDownThreshold int          `json:"scale_down_threshold"`
	MinAgents          int          `json:"min_agents"`
	MaxAgents          int          `json:"max_agents"`
	MaxBatch           int          `json:"max_batch"`
}

func (h *PolicyHandler) Status(c *gin.Context) {
	now := time.Now()
	cfg := h.policy.Config()

	c.JSON(http.StatusOK, PolicyStatusResponse{
		State:              h.policy.State(now),
		CooldownRemaining:  h.policy.CooldownRemaining(now).String(),
		ScaleUpThreshold:   cfg.ScaleUpThreshold,
		ScaleDownThreshold: cfg.ScaleDownThreshold,
		MinAgents:          cfg.MinAgents,
		MaxAgents:          cfg.MaxAgents,
		MaxBatch:           cfg.MaxBatch,
	})
}
