package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OldStager01/agent-resource-manager/internal/balancer"
	"github.com/OldStager01/agent-resource-manager/internal/events"
	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/internal/metrics"
	"github.com/OldStager01/agent-resource-manager/internal/policy"
	"github.com/OldStager01/agent-resource-manager/internal/provider"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

// CommandSink receives scaling decisions. The manager does not know how
// agents are actually started or stopped.
type CommandSink interface {
	ApplyScaling(ctx context.Context, decision models.ScalingDecision) error
}

type Config struct {
	TickInterval time.Duration
	Provider     provider.MetricsProvider
	Sink         CommandSink
	Balancer     *balancer.LoadBalancer
	Policy       *policy.Policy
	Publisher    *events.Publisher
}

// Manager wires the load balancer and the scaling policy to the external
// metrics provider and command sink. A single periodic evaluator drives
// scaling; task selection calls run concurrently against it. No failure in
// either path is fatal: a failed tick or selection affects only itself.
type Manager struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func New(cfg Config) *Manager {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	m.running = true
	m.wg.Add(1)
	go m.run()

	logger.Info("Resource manager started")
	return nil
}

// Stop cancels the tick loop and waits for an in-flight cycle to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()

	logger.Info("Resource manager stopped")
}

func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) Policy() *policy.Policy {
	return m.config.Policy
}

func (m *Manager) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.TickInterval)
	defer ticker.Stop()

	// Run immediately on start
	m.runCycle()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.runCycle()
		}
	}
}

func (m *Manager) runCycle() {
	ctx, cancel := context.WithTimeout(m.ctx, m.config.TickInterval)
	defer cancel()

	start := time.Now()

	cm, err := m.config.Provider.ClusterMetrics(ctx)
	if err != nil {
		logger.Errorf("Cluster metrics fetch failed: %v", err)
		m.config.Publisher.Error("Cluster metrics fetch failed", err)
		return
	}

	metrics.SetPoolState(cm)

	decision := m.config.Policy.Evaluate(cm, time.Now())
	metrics.IncDecision(decision.Direction)
	metrics.SetCooldownRemaining(m.config.Policy.CooldownRemaining(time.Now()))

	if decision.Direction != models.ScaleNone {
		m.config.Publisher.DecisionMade(&decision)
	}

	if decision.ShouldExecute() {
		m.execute(ctx, decision)
	}

	metrics.ObserveCycle(time.Since(start))
}

func (m *Manager) execute(ctx context.Context, decision models.ScalingDecision) {
	m.config.Publisher.ScalingStarted(&decision)

	if err := m.config.Sink.ApplyScaling(ctx, decision); err != nil {
		metrics.IncScalingOperation(decision.Direction, "failed")
		m.config.Publisher.ScalingFailed(decision.Reason, err)
		logger.Errorf("Scaling %s by %d failed: %v", decision.Direction, decision.Amount, err)
		return
	}

	metrics.IncScalingOperation(decision.Direction, "success")
	scalingEvent := models.NewScalingEvent(decision, models.ScalingEventSuccess)
	m.config.Publisher.ScalingComplete(scalingEvent)

	logger.Infof(
		"Scaling complete: %s %d -> %d agents",
		decision.Direction, scalingEvent.AgentsBefore, scalingEvent.AgentsAfter,
	)
}

// AssignTask selects one available agent for the task and returns its id.
// ErrEmptyPool propagates to the caller as the signal that admission must be
// deferred or queued; a result is never fabricated.
func (m *Manager) AssignTask(ctx context.Context, taskID string) (string, error) {
	agents, err := m.config.Provider.AgentMetrics(ctx)
	if err != nil {
		m.config.Publisher.Error("Agent metrics fetch failed", err)
		return "", fmt.Errorf("fetching agent metrics: %w", err)
	}

	candidates := make([]models.AgentMetrics, 0, len(agents))
	for _, a := range agents {
		if a.IsAvailable() {
			candidates = append(candidates, a)
		}
	}

	agentID, err := m.config.Balancer.SelectAgent(candidates)
	if err != nil {
		metrics.IncEmptyPoolRejection()
		m.config.Publisher.AssignmentRejected(taskID, err)
		return "", err
	}

	metrics.IncSelection(m.config.Balancer.Strategy().String())
	m.config.Publisher.TaskAssigned(&models.TaskAssignment{
		TaskID:     taskID,
		AgentID:    agentID,
		Strategy:   m.config.Balancer.Strategy().String(),
		Candidates: len(candidates),
		AssignedAt: time.Now(),
	})

	return agentID, nil
}

// ClusterSnapshot exposes the current pool-wide metrics for the API.
func (m *Manager) ClusterSnapshot(ctx context.Context) (models.ClusterMetrics, error) {
	return m.config.Provider.ClusterMetrics(ctx)
}

// AgentSnapshot exposes current per-agent metrics for the API, with derived
// load scores filled in.
func (m *Manager) AgentSnapshot(ctx context.Context) ([]models.AgentMetrics, error) {
	agents, err := m.config.Provider.AgentMetrics(ctx)
	if err != nil {
		return nil, err
	}
	for i := range agents {
		agents[i].Score = balancer.CalculateLoadScore(agents[i])
	}
	return agents, nil
}
