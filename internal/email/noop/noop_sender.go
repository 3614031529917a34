package noop

import (
	"context"
	"log"

	"hrdesk/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs messages to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) Send(_ context.Context, to, subject, body string) error {
	log.Printf("[NOOP EMAIL] to=%s subject=%q body=%d bytes", to, subject, len(body))
	return nil
}
