package services

import (
	"context"

	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/realtime"
	"github.com/crewdesk/crewdesk-backend/internal/realtime/bus"
)

// Publisher fans an event out to every live subscriber of a group and
// reports the local receiver count. A publish failure must propagate to the
// caller so the job host retries the whole unit of work.
type Publisher interface {
	Publish(ctx context.Context, group string, event realtime.Event, data any) (int, error)
}

type realtimePublisher struct {
	log *logger.Logger
	hub *realtime.Hub
	bus bus.Bus
}

// NewPublisher wires the local hub and the optional cross-instance bus.
// A nil bus keeps delivery single-instance.
func NewPublisher(log *logger.Logger, hub *realtime.Hub, b bus.Bus) Publisher {
	return &realtimePublisher{
		log: log.With("service", "RealtimePublisher"),
		hub: hub,
		bus: b,
	}
}

func (p *realtimePublisher) Publish(ctx context.Context, group string, event realtime.Event, data any) (int, error) {
	msg := realtime.Message{Group: group, Event: event, Data: data}

	received := 0
	if p.hub != nil {
		received = p.hub.Broadcast(msg)
	}
	if p.bus != nil {
		if err := p.bus.Publish(ctx, msg); err != nil {
			return received, err
		}
	}
	return received, nil
}
