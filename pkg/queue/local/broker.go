// Package local provides in-process task dispatch for development and
// tests: envelopes either execute inline at enqueue time or travel
// through a broker (an in-memory channel or a Redis list) to a consumer
// goroutine running in the same process.
package local

import (
	"context"
	"errors"

	"github.com/dmitrymomot/postal/pkg/queue"
)

var (
	// ErrNotBound is returned when an inline dispatcher is used before an
	// executor is bound to it.
	ErrNotBound = errors.New("local: dispatcher is not bound to an executor")

	// ErrQueueFull is returned when the in-memory broker's buffer is full.
	ErrQueueFull = errors.New("local: queue is full")

	// ErrClosed is returned when publishing to a closed broker.
	ErrClosed = errors.New("local: broker is closed")

	// ErrAlreadyStarted is returned when starting a running consumer.
	ErrAlreadyStarted = errors.New("local: consumer already started")

	// ErrNotStarted is returned when stopping a consumer that is not running.
	ErrNotStarted = errors.New("local: consumer not started")

	// ErrBrokerRequired is returned when a consumer or dispatcher is
	// created without a broker.
	ErrBrokerRequired = errors.New("local: broker is required")

	// ErrExecutorRequired is returned when a consumer is created without
	// an executor.
	ErrExecutorRequired = errors.New("local: executor is required")
)

// Executor runs delivered envelopes. *queue.Backend satisfies it.
type Executor interface {
	ExecuteEnvelope(ctx context.Context, env *queue.Envelope) error
}

// Broker moves envelopes from the enqueue side to the consumer.
type Broker interface {
	// Publish accepts an envelope for later delivery and returns an
	// opaque delivery id.
	Publish(ctx context.Context, env queue.Envelope) (string, error)

	// Receive blocks until an envelope is available or ctx is done.
	Receive(ctx context.Context) (*queue.Envelope, error)
}

// Dispatcher implements queue.Dispatcher by publishing to a Broker.
type Dispatcher struct {
	broker Broker
}

// NewDispatcher creates a broker-backed dispatcher.
func NewDispatcher(broker Broker) (*Dispatcher, error) {
	if broker == nil {
		return nil, ErrBrokerRequired
	}
	return &Dispatcher{broker: broker}, nil
}

// Dispatch implements queue.Dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, env queue.Envelope) (string, error) {
	return d.broker.Publish(ctx, env)
}
