package queue

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
)

// Backend is the task backend: it enqueues named tasks through a
// Dispatcher and executes previously queued tasks when the external
// dispatcher calls back.
//
// The registry must be populated with Register during application
// bootstrap, identically in every process that can receive callbacks,
// before the callback route is mounted. Queueing an unregistered task
// name fails with ErrUnknownTask.
type Backend struct {
	store      RecordStore
	dispatcher Dispatcher
	registry   *registry
	log        *slog.Logger
	secret     string
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for execution diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(b *Backend) {
		if log != nil {
			b.log = log
		}
	}
}

// New creates a task backend.
// The shared secret authenticates callback deliveries and must not be empty.
func New(store RecordStore, dispatcher Dispatcher, secret string, opts ...Option) (*Backend, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}
	if secret == "" {
		return nil, ErrSecretRequired
	}

	b := &Backend{
		store:      store,
		dispatcher: dispatcher,
		registry:   newRegistry(),
		secret:     secret,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Register adds a task to the in-process registry. Registration is
// idempotent: the first task registered under a name wins and is never
// silently replaced.
func (b *Backend) Register(task Task) {
	b.registry.register(task)
}

// Tasks returns the sorted names of all registered tasks.
func (b *Backend) Tasks() []string {
	return b.registry.names()
}

// Receipt is the acceptance of a queued task: the persisted record id and
// the dispatch mechanism's own id for the delivery.
type Receipt struct {
	DispatchID string
	TaskID     int64
}

// Queue persists a new pending task record and hands its envelope to the
// dispatcher. It returns once the dispatch is accepted; it never executes
// the task itself and never waits for completion.
func (b *Backend) Queue(ctx context.Context, name string, payload any) (*Receipt, error) {
	if _, ok := b.registry.get(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	rec, err := b.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	dispatchID, err := b.dispatcher.Dispatch(ctx, Envelope{
		TaskName:  name,
		TaskID:    rec.ID,
		SecretKey: b.secret,
		Payload:   raw,
	})
	if err != nil {
		return nil, errors.Join(ErrDispatchFailed, err)
	}

	b.log.InfoContext(ctx, "task queued",
		slog.String("task", name),
		slog.Int64("task_id", rec.ID),
		slog.String("dispatch_id", dispatchID),
	)

	return &Receipt{TaskID: rec.ID, DispatchID: dispatchID}, nil
}

// Execute runs a previously queued task and records its outcome.
//
// The secret is validated first; on mismatch neither the task nor its
// record is touched. The outcome write is conditional on the record still
// being pending, so concurrent duplicate deliveries cannot overwrite the
// first result. A failing task has its error and stack trace persisted
// before the wrapped error is returned to the caller.
func (b *Backend) Execute(ctx context.Context, name string, id int64, secret string, payload json.RawMessage) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(b.secret)) != 1 {
		return ErrInvalidSecret
	}

	task, ok := b.registry.get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	result, trace, err := run(ctx, task, payload)
	if err != nil {
		if _, storeErr := b.store.MarkFailed(ctx, id, err.Error(), trace); storeErr != nil {
			if errors.Is(storeErr, ErrTaskFinalized) {
				b.log.WarnContext(ctx, "duplicate task delivery after failure",
					slog.String("task", name), slog.Int64("task_id", id))
			} else {
				b.log.ErrorContext(ctx, "failed to record task failure",
					slog.String("task", name), slog.Int64("task_id", id), slog.Any("error", storeErr))
			}
		}
		return fmt.Errorf("%w: %s: %w", ErrTaskFailed, name, err)
	}

	if _, storeErr := b.store.MarkCompleted(ctx, id, result); storeErr != nil {
		if errors.Is(storeErr, ErrTaskFinalized) {
			// Duplicate delivery lost the race; the first outcome stands.
			b.log.WarnContext(ctx, "duplicate task delivery",
				slog.String("task", name), slog.Int64("task_id", id))
			return nil
		}
		return storeErr
	}

	b.log.InfoContext(ctx, "task completed",
		slog.String("task", name),
		slog.Int64("task_id", id),
	)

	return nil
}

// ExecuteEnvelope executes a parsed dispatch envelope.
func (b *Backend) ExecuteEnvelope(ctx context.Context, env *Envelope) error {
	return b.Execute(ctx, env.TaskName, env.TaskID, env.SecretKey, env.Payload)
}

// run invokes the task, converting a panic into an error with the
// captured stack so the outcome can be persisted either way.
func run(ctx context.Context, task Task, payload json.RawMessage) (result, trace string, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = ""
			trace = string(debug.Stack())
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	result, err = task.Execute(ctx, payload)
	if err != nil {
		trace = string(debug.Stack())
	}
	return result, trace, err
}
