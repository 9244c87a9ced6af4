package mail

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/weynak/weynak/internal/logging"
)

// RetryingMailer retries transient failures of next until the timeout
// budget runs out.
type RetryingMailer struct {
	next    Mailer
	timeout time.Duration
	backoff func() retry.Backoff
	log     logging.Logger
}

func NewRetryingMailer(next Mailer, timeout time.Duration, log logging.Logger) *RetryingMailer {
	return &RetryingMailer{
		next:    next,
		timeout: timeout,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.WithJitterPercent(20, retry.NewExponential(500*time.Millisecond)))
		},
		log: log,
	}
}

func (m *RetryingMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	attempt := 0
	return retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		attempt++
		err := m.next.Send(ctx, to, subject, body)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrBadAddress) || ctx.Err() != nil {
			return err
		}
		m.log.Warn(ctx, "mail delivery failed, retrying", "to", to, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
}
