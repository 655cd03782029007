package service

import (
	"context"
	"fmt"

	"codelm-be/internal/pkg/logger"
	"codelm-be/pkg/events"
	pktNats "codelm-be/pkg/nats"
)

// EventLogService drains the event bus into the structured audit log. It is
// the durable consumer of the EVENTS stream: every lifecycle event published
// by the ingestion side is acked here, so the work queue never accumulates.
type EventLogService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewEventLogService(sub *pktNats.Subscriber, log logger.ILogger) *EventLogService {
	return &EventLogService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *EventLogService) Start() {
	err := s.subscriber.Subscribe("events.>", "event-log-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("EventLogService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventLogService", "Event log service started, listening to events.>", nil)
}

func (s *EventLogService) handleEvent(ctx context.Context, event events.Event) error {
	details := event.Payload()

	switch event.EventType() {
	case events.TypeSourceIngested:
		s.logger.Info("EventLogService", "source ingested", details)
	case events.TypeSourceIngestFailed:
		s.logger.Warn("EventLogService", "source ingest failed", details)
	default:
		s.logger.Info("EventLogService", fmt.Sprintf("event %s", event.EventType()), details)
	}

	// The audit log never asks for a redelivery.
	return nil
}
