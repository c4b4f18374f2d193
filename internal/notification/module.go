package notification

import (
	"context"

	"leadwatch_backend/internal/email"
	"leadwatch_backend/internal/events"
	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"
)

// Module wires the dispatcher to the event bus. The engine publishes
// LeadEscalated; this module turns it into one delivery attempt.
type Module struct {
	dispatcher *Dispatcher
}

// New creates the notification module.
func New(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Module {
	return &Module{
		dispatcher: NewDispatcher(sender, cfg, log),
	}
}

// Dispatcher returns the underlying dispatcher.
func (m *Module) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// RegisterHandlers subscribes to the domain events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadEscalated{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadEscalated:
		return m.dispatcher.SendEscalation(ctx, Escalation{
			LeadName:     e.LeadName,
			LeadPhone:    e.LeadPhone,
			AgentName:    e.AgentName,
			AgentEmail:   e.AgentEmail,
			SourceName:   e.SourceName,
			AssignedAt:   e.AssignedAt,
			TimerMinutes: e.TimerMinutes,
		})
	default:
		return nil
	}
}

var _ events.Handler = (*Module)(nil)
