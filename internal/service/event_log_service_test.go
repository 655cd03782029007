package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"codelm-be/pkg/events"
)

type recordingLogger struct {
	infos []string
	warns []string
}

func (r *recordingLogger) Debug(module, message string, details map[string]interface{}) {}
func (r *recordingLogger) Info(module, message string, details map[string]interface{}) {
	r.infos = append(r.infos, message)
}
func (r *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	r.warns = append(r.warns, message)
}
func (r *recordingLogger) Error(module, message string, details map[string]interface{}) {}
func (r *recordingLogger) Sync() error                                                  { return nil }

func TestEventLogHandlerAcksEveryEvent(t *testing.T) {
	log := &recordingLogger{}
	svc := NewEventLogService(nil, log)

	tests := []struct {
		name  string
		event events.Event
	}{
		{name: "ingested", event: events.NewSourceIngested("nb", "u", "f", "report.pdf", 3)},
		{name: "ingest failed", event: events.NewSourceIngestFailed("nb", "u", "f", "report.pdf", "unreadable")},
		{name: "unknown type", event: events.BaseEvent{Type: "SOMETHING_ELSE", OccurredAt: time.Now()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// nil means ack: the audit log never asks for a redelivery.
			assert.NoError(t, svc.handleEvent(context.Background(), tt.event))
		})
	}

	assert.Contains(t, log.infos, "source ingested")
	assert.Contains(t, log.warns, "source ingest failed")
}
