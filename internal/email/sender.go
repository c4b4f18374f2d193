// Package email provides escalation email delivery over SMTP.
package email

import (
	"context"
	"time"

	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"
)

// EscalationEmail carries everything the escalation template needs. All lead
// and agent fields are snapshots taken at assignment time.
type EscalationEmail struct {
	LeadName     string
	LeadPhone    string
	AgentName    string
	AgentEmail   string
	SourceName   string
	AssignedAt   time.Time
	TimerMinutes int
}

// Sender delivers escalation emails.
type Sender interface {
	SendEscalationEmail(ctx context.Context, toEmails []string, data EscalationEmail) error
}

// NewSender builds a Sender from configuration. When email is disabled a
// no-op sender is returned so callers never need to branch.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		log.Info("email sending disabled")
		return &NoopSender{log: log}
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender drops every message. Used when email is disabled.
type NoopSender struct {
	log *logger.Logger
}

// SendEscalationEmail logs and discards the message.
func (s *NoopSender) SendEscalationEmail(_ context.Context, toEmails []string, data EscalationEmail) error {
	if s.log != nil {
		s.log.Debug("email disabled, dropping escalation email",
			"recipients", len(toEmails),
			"lead", data.LeadName,
		)
	}
	return nil
}
