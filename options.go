package postal

import (
	"log/slog"

	"github.com/dmitrymomot/postal/pkg/mailer"
	"github.com/dmitrymomot/postal/pkg/queue"
)

// Option configures the Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	log           *slog.Logger
	sender        mailer.Sender
	dispatcher    queue.Dispatcher
	templateStore TemplateStore
	recordStore   queue.RecordStore
	markdown      bool
}

// WithLogger sets the logger used by the service and its components.
func WithLogger(log *slog.Logger) Option {
	return func(o *serviceOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithSender overrides the delivery provider selected by Config.Provider.
// Useful for custom providers and for capturing emails in tests.
func WithSender(sender mailer.Sender) Option {
	return func(o *serviceOptions) {
		o.sender = sender
	}
}

// WithDispatcher overrides the task dispatcher selected by
// Config.TaskSystem.
func WithDispatcher(dispatcher queue.Dispatcher) Option {
	return func(o *serviceOptions) {
		o.dispatcher = dispatcher
	}
}

// WithTemplateStore overrides the pgx-backed template store. The pool
// argument to New may be nil when both stores are overridden.
func WithTemplateStore(store TemplateStore) Option {
	return func(o *serviceOptions) {
		o.templateStore = store
	}
}

// WithRecordStore overrides the pgx-backed task record store.
func WithRecordStore(store queue.RecordStore) Option {
	return func(o *serviceOptions) {
		o.recordStore = store
	}
}

// WithMarkdownFallback derives an HTML body from the rendered text body
// for templates that have no HTML variant.
func WithMarkdownFallback() Option {
	return func(o *serviceOptions) {
		o.markdown = true
	}
}
