package queue

import "context"

// Dispatcher hands a dispatch envelope to an external mechanism that
// guarantees the envelope will later be delivered, at least once, back to
// an execution endpoint. Dispatch returns an opaque acceptance id; it does
// not wait for execution.
type Dispatcher interface {
	Dispatch(ctx context.Context, env Envelope) (string, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, env Envelope) (string, error)

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, env Envelope) (string, error) {
	return f(ctx, env)
}
