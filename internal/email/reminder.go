package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/codr1/clubhouse/internal/ratelimit"
)

const reminderEmailTimeout = 5 * time.Second

// SendReminderEmail sends message to recipient asynchronously and reports
// whether a send was started. The send outlives ctx's cancellation but not
// reminderEmailTimeout.
func SendReminderEmail(ctx context.Context, client EmailSender, recipient string, message Message, sender string, logger *zerolog.Logger) bool {
	recipient = strings.TrimSpace(recipient)
	if client == nil || recipient == "" {
		return false
	}
	if message.Subject == "" || message.Body == "" {
		return false
	}

	masked := ratelimit.SanitizeIdentifier(recipient)
	go func() {
		sendCtx, cancel := newEmailContext(ctx, reminderEmailTimeout)
		defer cancel()
		if err := client.SendFrom(sendCtx, recipient, message.Subject, message.Body, sender); err != nil {
			if logger != nil {
				logger.Error().Err(err).Str("recipient", masked).Msg("Failed to send reminder email")
			}
			return
		}
		if logger != nil {
			logger.Info().Str("recipient", masked).Msg("Reminder email sent")
		}
	}()
	return true
}

func newEmailContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	// Detach cancellation so job-scoped contexts don't abort async sends.
	parent = context.WithoutCancel(parent)
	return context.WithTimeout(parent, timeout)
}
