package events

import (
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) TaskAssigned(assignment *models.TaskAssignment) {
	event := models.NewEvent(models.EventTypeTaskAssigned, "Task assigned to agent "+assignment.AgentID).
		WithData(assignment)
	p.publish(event)
}

func (p *Publisher) AssignmentRejected(taskID string, err error) {
	event := models.NewEvent(models.EventTypeAssignmentRejected, "Task assignment rejected").
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{
			"task_id": taskID,
			"error":   err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) DecisionMade(decision *models.ScalingDecision) {
	msg := "Scaling decision: " + string(decision.Direction)
	event := models.NewEvent(models.EventTypeDecisionMade, msg).
		WithData(decision)
	p.publish(event)
}

func (p *Publisher) ScalingStarted(decision *models.ScalingDecision) {
	msg := "Scaling started: " + string(decision.Direction)
	event := models.NewEvent(models.EventTypeScalingStarted, msg).
		WithData(decision)
	p.publish(event)
}

func (p *Publisher) ScalingComplete(scalingEvent *models.ScalingEvent) {
	msg := "Scaling complete: " + string(scalingEvent.Direction)
	event := models.NewEvent(models.EventTypeScalingComplete, msg).
		WithData(scalingEvent)
	p.publish(event)
}

func (p *Publisher) ScalingFailed(reason string, err error) {
	msg := "Scaling failed: " + reason
	event := models.NewEvent(models.EventTypeScalingFailed, msg).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) AgentAdded(agent *models.Agent) {
	event := models.NewEvent(models.EventTypeAgentAdded, "Agent added").
		WithData(agent)
	p.publish(event)
}

func (p *Publisher) AgentRemoved(agent *models.Agent) {
	event := models.NewEvent(models.EventTypeAgentRemoved, "Agent removed").
		WithData(agent)
	p.publish(event)
}

func (p *Publisher) Alert(severity models.EventSeverity, message string, data interface{}) {
	event := models.NewEvent(models.EventTypeAlert, message).
		WithSeverity(severity).
		WithData(data)
	p.publish(event)
}

func (p *Publisher) Error(message string, err error) {
	event := models.NewEvent(models.EventTypeError, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
