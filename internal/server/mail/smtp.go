package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// dialAndSend is a seam so tests can inspect messages without a relay.
var dialAndSend = func(ctx context.Context, c *gomail.Client, msgs ...*gomail.Msg) error {
	return c.DialAndSendWithContext(ctx, msgs...)
}

// SMTPMailer sends through an authenticated SMTP relay (Gmail by default).
type SMTPMailer struct {
	host string
	opts []gomail.Option
	from string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(user),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	// 465 is implicit TLS, everything else negotiates STARTTLS.
	if port == 465 {
		opts = append(opts, gomail.WithSSL())
	}
	return &SMTPMailer{host: host, opts: opts, from: from}
}

func (m *SMTPMailer) message(to, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("%w: from %q: %v", ErrBadAddress, m.from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: to %q: %v", ErrBadAddress, to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := m.message(to, subject, body)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := dialAndSend(ctx, client, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
