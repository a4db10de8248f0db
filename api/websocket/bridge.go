package websocket

import (
	"encoding/json"

	"github.com/OldStager01/agent-resource-manager/internal/logger"
	"github.com/OldStager01/agent-resource-manager/pkg/models"
)

// EventBridge forwards bus events to connected websocket clients.
type EventBridge struct {
	hub    *Hub
	events <-chan *models.Event
	done   chan struct{}
	stop   chan struct{}
}

func NewEventBridge(hub *Hub, events <-chan *models.Event) *EventBridge {
	return &EventBridge{
		hub:    hub,
		events: events,
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

func (b *EventBridge) Start() {
	go b.run()
}

func (b *EventBridge) Stop() {
	close(b.stop)
	<-b.done
}

func (b *EventBridge) run() {
	defer close(b.done)

	for {
		select {
		case <-b.stop:
			return
		case event, ok := <-b.events:
			if !ok {
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				logger.Errorf("Failed to marshal event for broadcast: %v", err)
				continue
			}
			b.hub.Broadcast(data)
		}
	}
}
