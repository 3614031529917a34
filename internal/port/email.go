package port

import "context"

// EmailSender delivers transactional email. Delivery mechanics live behind
// this port; the services only compose subject and body.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
