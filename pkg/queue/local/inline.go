package local

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postal/pkg/queue"
)

// Inline executes envelopes synchronously at dispatch time, with no
// broker in between. This is the "none" broker: the enqueue call only
// returns after the task has run and its outcome is recorded, which makes
// failures directly visible to the enqueuing caller.
//
// The executor is bound after construction because the backend and its
// dispatcher reference each other: create the Inline, create the backend
// with it, then Bind the backend.
type Inline struct {
	exec Executor
}

// NewInline creates an unbound inline dispatcher.
func NewInline() *Inline {
	return &Inline{}
}

// Bind attaches the executor. Must be called before the first Dispatch.
func (d *Inline) Bind(exec Executor) {
	d.exec = exec
}

// Dispatch implements queue.Dispatcher.
func (d *Inline) Dispatch(ctx context.Context, env queue.Envelope) (string, error) {
	if d.exec == nil {
		return "", ErrNotBound
	}
	if err := d.exec.ExecuteEnvelope(ctx, &env); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}
