// Package notification dispatches escalation messages. Delivery is
// best-effort and fire-and-forget: a failed send is logged and never blocks
// the engine's state transition.
package notification

import (
	"context"
	"time"

	"leadwatch_backend/internal/email"
	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"
)

// Escalation describes an overdue lead for the escalation message.
type Escalation struct {
	LeadName     string
	LeadPhone    string
	AgentName    string
	AgentEmail   string
	SourceName   string
	AssignedAt   time.Time
	TimerMinutes int
}

// Dispatcher sends escalation messages to the configured recipients.
type Dispatcher struct {
	sender     email.Sender
	recipients []string
	log        *logger.Logger
}

// NewDispatcher creates a dispatcher. With no configured recipients every
// send is a silent no-op.
func NewDispatcher(sender email.Sender, cfg config.EmailConfig, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender:     sender,
		recipients: cfg.GetEscalationRecipients(),
		log:        log,
	}
}

// SendEscalation delivers one escalation message. The returned error is
// informational; callers log it and move on.
func (d *Dispatcher) SendEscalation(ctx context.Context, esc Escalation) error {
	if len(d.recipients) == 0 {
		d.log.Debug("no escalation recipients configured, skipping notification",
			"lead", esc.LeadName,
		)
		return nil
	}

	err := d.sender.SendEscalationEmail(ctx, d.recipients, email.EscalationEmail{
		LeadName:     esc.LeadName,
		LeadPhone:    esc.LeadPhone,
		AgentName:    esc.AgentName,
		AgentEmail:   esc.AgentEmail,
		SourceName:   esc.SourceName,
		AssignedAt:   esc.AssignedAt,
		TimerMinutes: esc.TimerMinutes,
	})
	if err != nil {
		d.log.Warn("escalation notification failed",
			"lead", esc.LeadName,
			"agent", esc.AgentName,
			"error", err,
		)
		return err
	}

	d.log.Info("escalation notification sent",
		"lead", esc.LeadName,
		"agent", esc.AgentName,
		"recipients", len(d.recipients),
	)
	return nil
}
