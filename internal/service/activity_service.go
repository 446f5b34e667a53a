package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-tracker/internal/events"
	"github.com/spec-kit/ticket-tracker/internal/observability"
)

// ActivityService records domain events to the structured log.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     observability.OrNop(logger).Named("activity"),
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountSignedUp, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventSessionStarted, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventSessionEnded, a.handleAccountEvent)
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handleTicketEvent)
	a.dispatcher.Subscribe(events.EventTicketUpdated, a.handleTicketEvent)
	a.dispatcher.Subscribe(events.EventTicketDeleted, a.handleTicketEvent)
}

func (a *ActivityService) handleAccountEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("account_id", event.AccountID),
		zap.Time("at", event.Timestamp))
	return nil
}

func (a *ActivityService) handleTicketEvent(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("account_id", event.AccountID),
		zap.String("ticket_id", event.TicketID),
		zap.Time("at", event.Timestamp),
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}
