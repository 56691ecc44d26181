package queue

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
)

// Task is a registered unit of deferred work. Execute receives the raw
// JSON payload from the dispatch envelope and returns a result string
// that is persisted on the task record.
type Task interface {
	Name() string
	Execute(ctx context.Context, payload json.RawMessage) (string, error)
}

// NewTask wraps a typed handler into a Task. The payload type P is
// unmarshaled from the envelope JSON before the handler runs.
//
// Example:
//
//	type resizePayload struct {
//		ImageID string `json:"image_id"`
//	}
//
//	task := queue.NewTask("resize_image", func(ctx context.Context, p resizePayload) (string, error) {
//		return "resized " + p.ImageID, images.Resize(ctx, p.ImageID)
//	})
func NewTask[P any](name string, handler func(context.Context, P) (string, error)) Task {
	return &typedTask[P]{name: name, handler: handler}
}

type typedTask[P any] struct {
	handler func(context.Context, P) (string, error)
	name    string
}

func (t *typedTask[P]) Name() string { return t.name }

func (t *typedTask[P]) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var payload P
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return "", errors.Join(ErrInvalidPayload, err)
		}
	}
	return t.handler(ctx, payload)
}

// registry stores registered tasks by name. It is process-local and must
// be populated identically at startup in every process that can receive
// callbacks; there is no cross-process synchronization.
type registry struct {
	tasks map[string]Task
	mu    sync.RWMutex
}

func newRegistry() *registry {
	return &registry{tasks: make(map[string]Task)}
}

// register adds a task unless the name is already taken. The first
// registration wins; a task is never silently replaced once set.
func (r *registry) register(task Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tasks[task.Name()]; exists {
		return
	}
	r.tasks[task.Name()] = task
}

func (r *registry) get(name string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[name]
	return task, ok
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.tasks))
}
