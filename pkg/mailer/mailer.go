package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/postal/pkg/templates"
)

// TemplateStore is the read surface the mailer needs from template storage.
type TemplateStore interface {
	GetByName(ctx context.Context, name string) (*templates.Template, error)
}

// Mailer is the synchronous send path: fetch a template by name, render it
// with the supplied data, and deliver through the configured Sender.
// Every step fails fast; errors propagate to the caller unmodified.
type Mailer struct {
	store    TemplateStore
	sender   Sender
	renderer *Renderer
	log      *slog.Logger
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger used for send diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mailer) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a Mailer.
func New(store TemplateStore, sender Sender, renderer *Renderer, opts ...Option) *Mailer {
	m := &Mailer{
		store:    store,
		sender:   sender,
		renderer: renderer,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	To       string         // Recipient address
	Template string         // Stored template name
	From     string         // Optional sender override
	Data     map[string]any // Template variables
}

// Send fetches the template, renders it, and delivers the result.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}

	tpl, err := m.store.GetByName(ctx, params.Template)
	if err != nil {
		return err
	}

	email, err := m.renderer.Render(tpl, params.To, params.Data)
	if err != nil {
		return err
	}
	email.From = params.From

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	m.log.InfoContext(ctx, "email sent",
		slog.String("template", params.Template),
		slog.String("to", params.To),
	)

	return nil
}

// SendRaw delivers a pre-built email without template rendering.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if email.To == "" {
		return ErrNoRecipient
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
