package mail

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/weynak/weynak/internal/logging"
)

// WriterMailer prints messages to w instead of delivering them. Used with
// the "log" provider for local development.
type WriterMailer struct {
	mu  sync.Mutex
	w   io.Writer
	log logging.Logger
}

func NewWriterMailer(w io.Writer, log logging.Logger) *WriterMailer {
	return &WriterMailer{w: w, log: log}
}

func (m *WriterMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := fmt.Fprintf(m.w, "To: %s\nSubject: %s\n\n%s\n\n", to, subject, body); err != nil {
		return fmt.Errorf("write mail: %w", err)
	}
	m.log.Debug(ctx, "mail written instead of sent", "to", to, "subject", subject)
	return nil
}
