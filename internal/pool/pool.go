package pool

import (
	"errors"
	"sync"

	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrAgentBusy     = errors.New("agent is not available")
)

type Callbacks struct {
	OnAgentAdded   func(agent *models.Agent)
	OnAgentRemoved func(agent *models.Agent)
}

// Pool is the authoritative registry of agents plus the cluster-wide count
// of pending tasks. Snapshots taken from it are copies; mutating pool state
// never invalidates a snapshot already handed out.
type Pool struct {
	mu        sync.RWMutex
	agents    map[string]*models.Agent
	order     []string // insertion order, kept stable for deterministic snapshots
	pending   int
	callbacks Callbacks
}

func New(callbacks Callbacks) *Pool {
	return &Pool{
		agents:    make(map[string]*models.Agent),
		callbacks: callbacks,
	}
}

// AddAgents grows the pool by count fresh available agents.
func (p *Pool) AddAgents(count int) []*models.Agent {
	p.mu.Lock()
	added := make([]*models.Agent, 0, count)
	for i := 0; i < count; i++ {
		agent := models.NewAgent()
		p.agents[agent.ID] = agent
		p.order = append(p.order, agent.ID)
		added = append(added, agent)
	}
	p.mu.Unlock()

	for _, agent := range added {
		logger.WithAgent(agent.ID).Debug("Agent added to pool")
		if p.callbacks.OnAgentAdded != nil {
			p.callbacks.OnAgentAdded(agent)
		}
	}
	return added
}

// DrainAgents marks up to count available agents as draining and removes
// them from the pool. Busy agents are never drained.
func (p *Pool) DrainAgents(count int) []*models.Agent {
	p.mu.Lock()
	removed := make([]*models.Agent, 0, count)
	kept := p.order[:0]
	for _, id := range p.order {
		agent := p.agents[id]
		if len(removed) < count && agent.Status == models.AgentStatusAvailable {
			agent.Drain()
			delete(p.agents, id)
			removed = append(removed, agent)
			continue
		}
		kept = append(kept, id)
	}
	p.order = kept
	p.mu.Unlock()

	for _, agent := range removed {
		logger.WithAgent(agent.ID).Debug("Agent drained from pool")
		if p.callbacks.OnAgentRemoved != nil {
			p.callbacks.OnAgentRemoved(agent)
		}
	}
	return removed
}

// Acquire marks an agent busy with the given task.
func (p *Pool) Acquire(agentID, taskID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	agent, exists := p.agents[agentID]
	if !exists {
		return ErrAgentNotFound
	}
	if agent.Status != models.AgentStatusAvailable {
		return ErrAgentBusy
	}

	agent.Assign(taskID)
	return nil
}

// Release returns a busy agent to the available set.
func (p *Pool) Release(agentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	agent, exists := p.agents[agentID]
	if !exists {
		return ErrAgentNotFound
	}

	agent.Release()
	return nil
}

func (p *Pool) Enqueue(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending += count
}

// Dequeue removes one pending task, reporting whether one was queued.
func (p *Pool) Dequeue() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == 0 {
		return false
	}
	p.pending--
	return true
}

func (p *Pool) Agent(agentID string) (models.Agent, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	agent, exists := p.agents[agentID]
	if !exists {
		return models.Agent{}, false
	}
	return *agent, true
}

// Agents returns a copy of every agent in insertion order.
func (p *Pool) Agents() []models.Agent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.Agent, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.agents[id])
	}
	return out
}

func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.agents)
}

// ClusterMetrics builds the pool-wide snapshot the scaling policy consumes.
func (p *Pool) ClusterMetrics() models.ClusterMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()

	idle := 0
	for _, agent := range p.agents {
		if agent.Status == models.AgentStatusAvailable {
			idle++
		}
	}

	return models.ClusterMetrics{
		TotalAgents: len(p.agents),
		IdleAgents:  idle,
		QueueDepth:  p.pending,
	}
}
