package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"hrdesk/internal/config"
	"hrdesk/internal/port"
)

type smtpSender struct {
	cfg config.EmailConfig
}

// NewSMTPSender creates an EmailSender backed by a plain SMTP relay.
func NewSMTPSender(cfg config.EmailConfig) port.EmailSender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from := s.cfg.FromAddress
	fromHeader := from
	if s.cfg.FromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", s.cfg.FromName, from)
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", fromHeader)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtpSender.Send: %w", err)
	}
	return nil
}
