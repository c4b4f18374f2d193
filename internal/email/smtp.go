package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// SendEscalationEmail renders and delivers the escalation template to the
// configured recipients in a single message.
func (s *SMTPSender) SendEscalationEmail(ctx context.Context, toEmails []string, data EscalationEmail) error {
	content, err := renderEmailTemplate("escalation.html", escalationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Unanswered lead",
			Heading: "A lead went unanswered",
		},
		LeadName:     data.LeadName,
		LeadPhone:    data.LeadPhone,
		AgentName:    data.AgentName,
		AgentEmail:   data.AgentEmail,
		SourceName:   data.SourceName,
		AssignedAt:   formatInstant(data.AssignedAt),
		TimerMinutes: data.TimerMinutes,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf(subjectEscalationFmt, data.LeadName)
	return s.send(ctx, toEmails, subject, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmails []string, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmails...); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
