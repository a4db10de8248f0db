package models

import "time"

// TaskAssignment records the outcome of one selection call.
type TaskAssignment struct {
	ID         int       `json:"id"`
	TaskID     string    `json:"task_id"`
	AgentID    string    `json:"agent_id"`
	Strategy   string    `json:"strategy"`
	Score      float64   `json:"score,omitempty"`
	Candidates int       `json:"candidates"`
	AssignedAt time.Time `json:"assigned_at"`
}
