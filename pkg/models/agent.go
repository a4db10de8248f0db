package models

import "time"

type AgentStatus string

const (
	AgentStatusAvailable AgentStatus = "available"
	AgentStatusBusy      AgentStatus = "busy"
	AgentStatusDraining  AgentStatus = "draining"
)

// AgentMetrics is a per-agent load sample captured once per decision cycle.
// A snapshot is never mutated after capture; each cycle produces fresh values.
// Fields absent from a decoded payload keep their zero value, so an agent that
// under-reports load is treated as unloaded rather than rejected.
type AgentMetrics struct {
	AgentID     string      `json:"agent_id"`
	CPUUsage    float64     `json:"cpu_usage"`
	MemoryUsage float64     `json:"memory_usage"`
	QueueDepth  int         `json:"queue_depth"`
	Status      AgentStatus `json:"status"`
	Score       float64     `json:"score,omitempty"`
}

func (m AgentMetrics) IsAvailable() bool {
	return m.Status == AgentStatusAvailable
}

// Agent is a worker unit that executes one task at a time.
type Agent struct {
	ID           string      `json:"id"`
	Status       AgentStatus `json:"status"`
	CurrentTask  string      `json:"current_task,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
	Executions   int64       `json:"executions"`
}

func NewAgent() *Agent {
	now := time.Now()
	return &Agent{
		ID:           NewUUID(),
		Status:       AgentStatusAvailable,
		CreatedAt:    now,
		LastActivity: now,
	}
}

func (a *Agent) Assign(taskID string) {
	a.Status = AgentStatusBusy
	a.CurrentTask = taskID
	a.LastActivity = time.Now()
	a.Executions++
}

func (a *Agent) Release() {
	a.Status = AgentStatusAvailable
	a.CurrentTask = ""
	a.LastActivity = time.Now()
}

func (a *Agent) Drain() {
	a.Status = AgentStatusDraining
	a.LastActivity = time.Now()
}
