package models

import "time"

type ScalingDirection string

const (
	ScaleUp   ScalingDirection = "SCALE_UP"
	ScaleDown ScalingDirection = "SCALE_DOWN"
	ScaleNone ScalingDirection = "NONE"
)

// ScalingDecision is the output of a single policy evaluation.
type ScalingDecision struct {
	Timestamp      time.Time        `json:"timestamp"`
	Direction      ScalingDirection `json:"direction"`
	Amount         int              `json:"amount"`
	CurrentAgents  int              `json:"current_agents"`
	Reason         string           `json:"reason"`
	CooldownActive bool             `json:"cooldown_active"`
}

func (d *ScalingDecision) ShouldExecute() bool {
	return d.Direction != ScaleNone && d.Amount > 0 && !d.CooldownActive
}

type ScalingEventStatus string

const (
	ScalingEventSuccess ScalingEventStatus = "success"
	ScalingEventFailed  ScalingEventStatus = "failed"
	ScalingEventPartial ScalingEventStatus = "partial"
)

// ScalingEvent records an executed scaling action for the audit trail.
type ScalingEvent struct {
	ID            int                `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Direction     ScalingDirection   `json:"direction"`
	Amount        int                `json:"amount"`
	AgentsBefore  int                `json:"agents_before"`
	AgentsAfter   int                `json:"agents_after"`
	TriggerReason string             `json:"trigger_reason"`
	Status        ScalingEventStatus `json:"status"`
}

func NewScalingEvent(decision ScalingDecision, status ScalingEventStatus) *ScalingEvent {
	after := decision.CurrentAgents
	switch decision.Direction {
	case ScaleUp:
		after += decision.Amount
	case ScaleDown:
		after -= decision.Amount
	}

	return &ScalingEvent{
		Timestamp:     decision.Timestamp,
		Direction:     decision.Direction,
		Amount:        decision.Amount,
		AgentsBefore:  decision.CurrentAgents,
		AgentsAfter:   after,
		TriggerReason: decision.Reason,
		Status:        status,
	}
}
