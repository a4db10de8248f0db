package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/agent-resource-manager/internal/balancer"
	"github.com/OldStager01/agent-resource-manager/internal/events"
	"github.com/OldStager01/agent-resource-manager/internal/policy"
	"github.com/OldStager01/agent-resource-manager/internal/provider"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

type mockSink struct {
	mu        sync.Mutex
	decisions []models.ScalingDecision
	err       error
}

func (s *mockSink) ApplyScaling(ctx context.Context, decision models.ScalingDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.decisions = append(s.decisions, decision)
	return nil
}

func (s *mockSink) applied() []models.ScalingDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ScalingDecision, len(s.decisions))
	copy(out, s.decisions)
	return out
}

type fixture struct {
	manager *Manager
	mock    *provider.MockProvider
	sink    *mockSink
	bus     *events.EventBus
}

func newFixture(tick time.Duration) *fixture {
	mock := provider.NewMockProvider()
	sink := &mockSink{}
	bus := events.NewEventBus(64)

	mgr := New(Config{
		TickInterval: tick,
		Provider:     mock,
		Sink:         sink,
		Balancer:     balancer.New(balancer.StrategyLeastLoaded),
		Policy: policy.New(policy.Config{
			ScaleUpThreshold:   10,
			ScaleDownThreshold: 2,
			MinAgents:          2,
			MaxAgents:          20,
			MaxBatch:           5,
			Cooldown:           60 * time.Second,
		}),
		Publisher: events.NewPublisher(bus),
	})

	return &fixture{manager: mgr, mock: mock, sink: sink, bus: bus}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestManager_StartStop(t *testing.T) {
	f := newFixture(time.Hour)
	defer f.bus.Close()

	require.NoError(t, f.manager.Start())
	assert.True(t, f.manager.IsRunning())

	// Second start is a no-op.
	require.NoError(t, f.manager.Start())

	f.manager.Stop()
	assert.False(t, f.manager.IsRunning())

	// Stop on a stopped manager is safe.
	f.manager.Stop()
}

func TestManager_TickExecutesScaling(t *testing.T) {
	f := newFixture(time.Hour)
	defer f.bus.Close()

	completed := f.bus.Subscribe(models.EventTypeScalingComplete)

	f.mock.SetClusterMetrics(models.ClusterMetrics{TotalAgents: 5, QueueDepth: 27})

	// The first cycle runs immediately on start.
	require.NoError(t, f.manager.Start())
	defer f.manager.Stop()

	waitFor(t, func() bool { return len(f.sink.applied()) == 1 }, "scaling was never applied")

	applied := f.sink.applied()[0]
	assert.Equal(t, models.ScaleUp, applied.Direction)
	assert.Equal(t, 5, applied.Amount)
	assert.Equal(t, "queue_depth_above_threshold", applied.Reason)

	select {
	case event := <-completed:
		scalingEvent, ok := event.Data.(*models.ScalingEvent)
		require.True(t, ok)
		assert.Equal(t, 5, scalingEvent.AgentsBefore)
		assert.Equal(t, 10, scalingEvent.AgentsAfter)
		assert.Equal(t, models.ScalingEventSuccess, scalingEvent.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("scaling complete event never published")
	}
}

func TestManager_SteadyStateAppliesNothing(t *testing.T) {
	f := newFixture(time.Hour)
	defer f.bus.Close()

	f.mock.SetClusterMetrics(models.ClusterMetrics{TotalAgents: 5, IdleAgents: 1, QueueDepth: 3})

	require.NoError(t, f.manager.Start())
	defer f.manager.Stop()

	waitFor(t, func() bool { return f.mock.Calls() >= 1 }, "cycle never ran")
	assert.Empty(t, f.sink.applied())
}

func TestManager_ProviderFailureIsolatesTick(t *testing.T) {
	f := newFixture(20 * time.Millisecond)
	defer f.bus.Close()

	errCh := f.bus.Subscribe(models.EventTypeError)

	f.mock.SetShouldFail(true, nil)
	require.NoError(t, f.manager.Start())
	defer f.manager.Stop()

	select {
	case event := <-errCh:
		assert.Equal(t, models.SeverityCritical, event.Severity)
	case <-time.After(2 * time.Second):
		t.Fatal("provider failure never reported")
	}

	// The loop recovers on the next tick once the provider heals.
	f.mock.SetShouldFail(false, nil)
	f.mock.SetClusterMetrics(models.ClusterMetrics{TotalAgents: 5, QueueDepth: 27})

	waitFor(t, func() bool { return len(f.sink.applied()) >= 1 }, "manager never recovered after failure")
}

func TestManager_SinkFailurePublishesScalingFailed(t *testing.T) {
	f := newFixture(time.Hour)
	defer f.bus.Close()

	failed := f.bus.Subscribe(models.EventTypeScalingFailed)

	f.sink.err = provider.ErrSnapshotFailed
	f.mock.SetClusterMetrics(models.ClusterMetrics{TotalAgents: 5, QueueDepth: 27})

	require.NoError(t, f.manager.Start())
	defer f.manager.Stop()

	select {
	case event := <-failed:
		assert.Equal(t, models.SeverityCritical, event.Severity)
	case <-time.After(2 * time.Second):
		t.Fatal("scaling failure never published")
	}
}

func TestManager_AssignTask(t *testing.T) {
	f := newFixture(time.Hour)
	defer f.bus.Close()

	assigned := f.bus.Subscribe(models.EventTypeTaskAssigned)

	f.mock.SetAgentMetrics([]models.AgentMetrics{
		{AgentID: "agent-a", CPUUsage: 80.0, Status: models.AgentStatusAvailable},
		{AgentID: "agent-b", CPUUsage: 10.0, Status: models.AgentStatusAvailable},
		{AgentID: "agent-c", CPUUsage: 1.0, Status: models.AgentStatusBusy},
	})

	agentID, err := f.manager.AssignTask(context.Background(), "task-1")
	require.NoError(t, err)
	// agent-c is less loaded but busy; only available agents are candidates.
	assert.Equal(t, "agent-b", agentID)

	select {
	case event := <-assigned:
		assignment, ok := event.Data.(*models.TaskAssignment)
		require.True(t, ok)
		assert.Equal(t, "task-1", assignment.TaskID)
		assert.Equal(t, "agent-b", assignment.AgentID)
		assert.Equal(t, 2, assignment.Candidates)
	case <-time.After(2 * time.Second):
		t.Fatal("assignment event never published")
	}
}

func TestManager_AssignTask_EmptyPool(t *testing.T) {
	f := newFixture(time.Hour)
	defer f.bus.Close()

	rejected := f.bus.Subscribe(models.EventTypeAssignmentRejected)

	// Every agent busy means no candidates at all.
	f.mock.SetAgentMetrics([]models.AgentMetrics{
		{AgentID: "agent-a", Status: models.AgentStatusBusy},
	})

	agentID, err := f.manager.AssignTask(context.Background(), "task-1")
	assert.ErrorIs(t, err, balancer.ErrEmptyPool)
	assert.Empty(t, agentID)

	select {
	case event := <-rejected:
		assert.Equal(t, models.SeverityWarning, event.Severity)
	case <-time.After(2 * time.Second):
		t.Fatal("rejection event never published")
	}
}

func TestManager_AgentSnapshotFillsScores(t *testing.T) {
	f := newFixture(time.Hour)
	defer f.bus.Close()

	f.mock.SetAgentMetrics([]models.AgentMetrics{
		{AgentID: "agent-a", CPUUsage: 50.0, MemoryUsage: 30.0, QueueDepth: 10},
	})

	agents, err := f.manager.AgentSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.InDelta(t, 50.0*0.4+30.0*0.3+10*0.3, agents[0].Score, 1e-9)
}
