package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticket-tracker/internal/events"
)

func TestActivityService_LogsEvents(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	activity := NewActivityService(dispatcher, zap.New(core))
	activity.RegisterHandlers()

	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = dispatcher.Publish(ctx, events.Event{ID: "e1", Type: events.EventSessionStarted, AccountID: "acc-1", Timestamp: at})
	_ = dispatcher.Publish(ctx, events.Event{ID: "e2", Type: events.EventTicketDeleted, AccountID: "acc-1", TicketID: "t-1", Timestamp: at})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Message != string(events.EventSessionStarted) || entries[0].LoggerName != "activity" {
		t.Fatalf("unexpected first entry %+v", entries[0].Entry)
	}
	if entries[1].ContextMap()["ticket_id"] != "t-1" {
		t.Fatalf("expected ticket_id field, got %v", entries[1].ContextMap())
	}
}
