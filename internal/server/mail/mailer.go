// Package mail delivers reset codes to users over SMTP, Amazon SES, or a
// local writer for development.
package mail

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/weynak/weynak/internal/logging"
	"github.com/weynak/weynak/internal/server/config"
)

// ErrBadAddress marks a sender or recipient the transport refused to
// accept. Retrying will not help.
var ErrBadAddress = errors.New("invalid mail address")

// Mailer sends one plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New builds the transport selected by cfg.MailProvider and wraps it so a
// single Send never outlives cfg.MailTimeout.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (Mailer, error) {
	var transport Mailer

	switch cfg.MailProvider {
	case config.MailSMTP:
		transport = NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUser, cfg.MailPassword, cfg.Sender())
	case config.MailSES:
		m, err := NewSESMailer(ctx, SESOptions{
			Region:          cfg.SESRegion,
			Endpoint:        cfg.SESEndpoint,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
			From:            cfg.Sender(),
		})
		if err != nil {
			return nil, err
		}
		transport = m
	case config.MailLog:
		transport = NewWriterMailer(os.Stdout, log)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}

	return NewRetryingMailer(transport, cfg.MailTimeout, log), nil
}
