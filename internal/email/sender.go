package email

import "context"

// EmailSender delivers plain-text mail. The reminder job depends on this
// rather than on SES so tests can record sends.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
	SendFrom(ctx context.Context, recipient, subject, body, sender string) error
}

var _ EmailSender = (*SESClient)(nil)
