package events

import (
	"context"

	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
	"github.com/OldStager01/agent-resource-manager/pkg/store"
)

// Recorder consumes bus events, mirrors them into the structured log, and
// persists the audit-worthy ones when a store is configured. A nil db means
// log-only mode.
type Recorder struct {
	events      <-chan *models.Event
	scalingRepo *store.ScalingEventRepository
	assignRepo  *store.AssignmentRepository
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewRecorder(db *store.DB, events <-chan *models.Event) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Recorder{
		events: events,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if db != nil {
		r.scalingRepo = store.NewScalingEventRepository(db)
		r.assignRepo = store.NewAssignmentRepository(db)
	}

	return r
}

func (r *Recorder) Start() {
	go r.run()
}

func (r *Recorder) Stop() {
	r.cancel()
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)

	for {
		select {
		case <-r.ctx.Done():
			return
		case event, ok := <-r.events:
			if !ok {
				return
			}
			r.processEvent(event)
		}
	}
}

func (r *Recorder) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	switch event.Type {
	case models.EventTypeScalingComplete:
		r.persistScalingEvent(event)
	case models.EventTypeTaskAssigned:
		r.persistAssignment(event)
	}
}

func (r *Recorder) persistScalingEvent(event *models.Event) {
	if r.scalingRepo == nil {
		return
	}

	scalingEvent, ok := event.Data.(*models.ScalingEvent)
	if !ok {
		return
	}

	if err := r.scalingRepo.Insert(r.ctx, scalingEvent); err != nil {
		logger.Errorf("Failed to persist scaling event: %v", err)
	}
}

func (r *Recorder) persistAssignment(event *models.Event) {
	if r.assignRepo == nil {
		return
	}

	assignment, ok := event.Data.(*models.TaskAssignment)
	if !ok {
		return
	}

	if err := r.assignRepo.Insert(r.ctx, assignment); err != nil {
		logger.Errorf("Failed to persist task assignment: %v", err)
	}
}
