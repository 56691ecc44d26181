package local

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// Consumer pulls envelopes from a broker and feeds them to an executor.
// Execution failures are logged and dropped: the local brokers provide no
// redelivery, and the failure is already persisted on the task record.
type Consumer struct {
	broker Broker
	exec   Executor
	log    *slog.Logger

	cancel  context.CancelFunc
	stopped chan struct{}
	mu      sync.Mutex
	started bool
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithLogger sets the logger used for execution diagnostics.
func WithLogger(log *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		if log != nil {
			c.log = log
		}
	}
}

// NewConsumer creates a consumer.
func NewConsumer(broker Broker, exec Executor, opts ...ConsumerOption) (*Consumer, error) {
	if broker == nil {
		return nil, ErrBrokerRequired
	}
	if exec == nil {
		return nil, ErrExecutorRequired
	}

	c := &Consumer{
		broker: broker,
		exec:   exec,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start launches the consume loop in a background goroutine.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.stopped = make(chan struct{})
	c.started = true

	go c.loop(loopCtx)

	c.log.Info("task consumer started")
	return nil
}

// Stop shuts the consume loop down and waits for the in-flight envelope,
// if any, to finish or for ctx to expire.
func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return ErrNotStarted
	}

	c.cancel()
	select {
	case <-c.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.started = false
	c.log.Info("task consumer stopped")
	return nil
}

func (c *Consumer) loop(ctx context.Context) {
	defer close(c.stopped)

	for {
		env, err := c.broker.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrClosed) {
				return
			}
			c.log.Error("failed to receive envelope", slog.Any("error", err))
			if ctx.Err() != nil {
				return
			}
			continue
		}

		if err := c.exec.ExecuteEnvelope(ctx, env); err != nil {
			c.log.Error("task execution failed",
				slog.String("task", env.TaskName),
				slog.Int64("task_id", env.TaskID),
				slog.Any("error", err),
			)
		}
	}
}
