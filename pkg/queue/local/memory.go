package local

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/postal/pkg/queue"
)

const defaultBufferSize = 128

// Memory is a channel-backed broker for single-process deployments.
type Memory struct {
	ch     chan queue.Envelope
	done   chan struct{}
	closed sync.Once
}

// NewMemory creates an in-memory broker. A non-positive size falls back
// to a 128-envelope buffer.
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &Memory{
		ch:   make(chan queue.Envelope, size),
		done: make(chan struct{}),
	}
}

// Publish implements Broker. A full buffer is an immediate error instead
// of blocking the enqueuing request.
func (m *Memory) Publish(ctx context.Context, env queue.Envelope) (string, error) {
	select {
	case <-m.done:
		return "", ErrClosed
	default:
	}

	select {
	case m.ch <- env:
		return uuid.NewString(), nil
	case <-m.done:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		return "", ErrQueueFull
	}
}

// Receive implements Broker.
func (m *Memory) Receive(ctx context.Context) (*queue.Envelope, error) {
	select {
	case env := <-m.ch:
		return &env, nil
	case <-m.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the broker down. Buffered envelopes are dropped.
func (m *Memory) Close() error {
	m.closed.Do(func() { close(m.done) })
	return nil
}
