package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/agent-resource-manager/internal/events"
	"github.com/OldStager01/agent-resource-manager/pkg/store"
)

type EventsHandler struct {
	ring        *events.Ring
	scalingRepo *store.ScalingEventRepository
}

func NewEventsHandler(ring *events.Ring, scalingRepo *store.ScalingEventRepository) *EventsHandler {
	return &EventsHandler{ring: ring, scalingRepo: scalingRepo}
}

func (h *EventsHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	recent := h.ring.Recent(limit)
	c.JSON(http.StatusOK, gin.H{
		"events": recent,
		"count":  len(recent),
	})
}

// ScalingHistory reads the persisted audit trail. 404 when no store is
// configured.
func (h *EventsHandler) ScalingHistory(c *gin.Context) {
	if h.scalingRepo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit store not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	history, err := h.scalingRepo.GetRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": history,
		"count":  len(history),
	})
}
