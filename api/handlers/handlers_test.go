package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/agent-resource-manager/internal/balancer"
	"github.com/OldStager01/agent-resource-manager/internal/events"
	"github.com/OldStager01/agent-resource-manager/internal/manager"
	"github.com/OldStager01/agent-resource-manager/internal/policy"
	"github.com/OldStager01/agent-resource-manager/internal/provider"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	manager *manager.Manager
	mock    *provider.MockProvider
	policy  *policy.Policy
	bus     *events.EventBus
}

func newTestEnv() *testEnv {
	mock := provider.NewMockProvider()
	bus := events.NewEventBus(64)
	pol := policy.New(policy.Config{})

	mgr := manager.New(manager.Config{
		TickInterval: time.Hour,
		Provider:     mock,
		Balancer:     balancer.New(balancer.StrategyLeastLoaded),
		Policy:       pol,
		Publisher:    events.NewPublisher(bus),
	})

	return &testEnv{manager: mgr, mock: mock, policy: pol, bus: bus}
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTaskHandler_Assign(t *testing.T) {
	env := newTestEnv()
	defer env.bus.Close()

	env.mock.SetAgentMetrics([]models.AgentMetrics{
		{AgentID: "agent-a", CPUUsage: 20.0, Status: models.AgentStatusAvailable},
	})

	router := gin.New()
	router.POST("/tasks/assign", NewTaskHandler(env.manager).Assign)

	w := performRequest(router, http.MethodPost, "/tasks/assign", `{"task_id":"task-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AssignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "task-1", resp.TaskID)
	assert.Equal(t, "agent-a", resp.AgentID)
}

func TestTaskHandler_Assign_GeneratesTaskID(t *testing.T) {
	env := newTestEnv()
	defer env.bus.Close()

	env.mock.SetAgentMetrics([]models.AgentMetrics{
		{AgentID: "agent-a", Status: models.AgentStatusAvailable},
	})

	router := gin.New()
	router.POST("/tasks/assign", NewTaskHandler(env.manager).Assign)

	w := performRequest(router, http.MethodPost, "/tasks/assign", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AssignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TaskID)
}

func TestTaskHandler_Assign_EmptyPool(t *testing.T) {
	env := newTestEnv()
	defer env.bus.Close()

	router := gin.New()
	router.POST("/tasks/assign", NewTaskHandler(env.manager).Assign)

	w := performRequest(router, http.MethodPost, "/tasks/assign", `{"task_id":"task-1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no agents available")
}

func TestClusterHandler_Get(t *testing.T) {
	env := newTestEnv()
	defer env.bus.Close()

	env.mock.SetClusterMetrics(models.ClusterMetrics{TotalAgents: 5, IdleAgents: 2, QueueDepth: 9})

	router := gin.New()
	router.GET("/cluster", NewClusterHandler(env.manager).Get)

	w := performRequest(router, http.MethodGet, "/cluster", "")
	require.Equal(t, http.StatusOK, w.Code)

	var cm models.ClusterMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cm))
	assert.Equal(t, 5, cm.TotalAgents)
	assert.Equal(t, 9, cm.QueueDepth)
}

func TestClusterHandler_Agents_IncludesScores(t *testing.T) {
	env := newTestEnv()
	defer env.bus.Close()

	env.mock.SetAgentMetrics([]models.AgentMetrics{
		{AgentID: "agent-a", CPUUsage: 50.0, MemoryUsage: 30.0, QueueDepth: 10, Status: models.AgentStatusAvailable},
	})

	router := gin.New()
	router.GET("/agents", NewClusterHandler(env.manager).Agents)

	w := performRequest(router, http.MethodGet, "/agents", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Agents []models.AgentMetrics `json:"agents"`
		Count  int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.InDelta(t, 29.0, resp.Agents[0].Score, 1e-9)
}

func TestPolicyHandler_Status(t *testing.T) {
	env := newTestEnv()
	defer env.bus.Close()

	router := gin.New()
	router.GET("/policy", NewPolicyHandler(env.policy).Status)

	w := performRequest(router, http.MethodGet, "/policy", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp PolicyStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, policy.StateStable, resp.State)
	assert.Equal(t, 10, resp.ScaleUpThreshold)
	assert.Equal(t, 20, resp.MaxAgents)
}

func TestEventsHandler_Recent(t *testing.T) {
	env := newTestEnv()
	ring := events.NewRing(env.bus, 10)

	env.bus.Publish(models.NewEvent(models.EventTypeAlert, "backlog"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(ring.Recent(0)) == 0 {
		time.Sleep(5 * time.Millisecond)
	}

	router := gin.New()
	router.GET("/events/recent", NewEventsHandler(ring, nil).Recent)

	w := performRequest(router, http.MethodGet, "/events/recent", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backlog")

	env.bus.Close()
	ring.Wait()
}

func TestEventsHandler_ScalingHistoryWithoutStore(t *testing.T) {
	env := newTestEnv()
	ring := events.NewRing(env.bus, 10)

	router := gin.New()
	router.GET("/events/scaling", NewEventsHandler(ring, nil).ScalingHistory)

	w := performRequest(router, http.MethodGet, "/events/scaling", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.bus.Close()
	ring.Wait()
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv()
	defer env.bus.Close()

	router := gin.New()
	h := NewHealthHandler(env.mock, nil)
	router.GET("/healthz", h.Health)
	router.GET("/healthz/live", h.Live)

	w := performRequest(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	env.mock.SetShouldFail(true, nil)
	w = performRequest(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Liveness never depends on downstream health.
	w = performRequest(router, http.MethodGet, "/healthz/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
