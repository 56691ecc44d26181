// Package console provides a development delivery provider that writes
// emails to a local sink instead of sending them.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrymomot/postal/pkg/mailer"
)

const rule = 60

// Sender implements mailer.Sender by formatting the message as a
// human-readable block and writing it to an io.Writer (stdout by default).
// It always succeeds unless the sink itself fails.
type Sender struct {
	out io.Writer
	mu  sync.Mutex
}

// Option configures a console Sender.
type Option func(*Sender)

// WithWriter redirects output to the given writer.
// Useful for capturing emails in tests.
func WithWriter(w io.Writer) Option {
	return func(s *Sender) {
		if w != nil {
			s.out = w
		}
	}
}

// New creates a console sender.
func New(opts ...Option) *Sender {
	s := &Sender{out: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(_ context.Context, email *mailer.Email) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", rule) + "\n")
	b.WriteString("EMAIL\n")
	b.WriteString(strings.Repeat("=", rule) + "\n")
	fmt.Fprintf(&b, "To: %s\n", email.To)
	if email.From != "" {
		fmt.Fprintf(&b, "From: %s\n", email.From)
	}
	fmt.Fprintf(&b, "Subject: %s\n", email.Subject)
	b.WriteString(strings.Repeat("-", rule) + "\n")
	b.WriteString(email.Text + "\n")
	if email.HTML != "" {
		b.WriteString(strings.Repeat("-", rule) + "\n")
		b.WriteString(email.HTML + "\n")
	}
	b.WriteString(strings.Repeat("=", rule) + "\n")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return fmt.Errorf("console: write email: %w", err)
	}
	return nil
}
