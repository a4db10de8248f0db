package models

import "time"

// ClusterMetrics is the pool-wide snapshot the scaling policy evaluates.
// Invariant: IdleAgents <= TotalAgents. Missing fields in a decoded payload
// default to zero, which reads as an unloaded pool and never triggers scaling.
type ClusterMetrics struct {
	Timestamp   time.Time `json:"timestamp"`
	TotalAgents int       `json:"total_agents"`
	IdleAgents  int       `json:"idle_agents"`
	QueueDepth  int       `json:"queue_depth"`
}

func (cm ClusterMetrics) BusyAgents() int {
	return cm.TotalAgents - cm.IdleAgents
}

func (cm ClusterMetrics) Utilization() float64 {
	if cm.TotalAgents == 0 {
		return 0
	}
	return float64(cm.BusyAgents()) / float64(cm.TotalAgents)
}

// Headroom returns how many agents can still be added before maxAgents.
func (cm ClusterMetrics) Headroom(maxAgents int) int {
	h := maxAgents - cm.TotalAgents
	if h < 0 {
		return 0
	}
	return h
}

// Surplus returns how many agents can be removed before minAgents.
func (cm ClusterMetrics) Surplus(minAgents int) int {
	s := cm.TotalAgents - minAgents
	if s < 0 {
		return 0
	}
	return s
}
