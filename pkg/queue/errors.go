package queue

import "errors"

// Queue errors.
var (
	// ErrUnknownTask is returned when a task name has no registered
	// implementation in this process.
	ErrUnknownTask = errors.New("queue: unknown task")

	// ErrTaskNotFound is returned when no task record with the given id
	// exists.
	ErrTaskNotFound = errors.New("queue: task not found")

	// ErrTaskFinalized is returned when a terminal write is attempted on a
	// task that already left the pending state. The first outcome wins.
	ErrTaskFinalized = errors.New("queue: task already finalized")

	// ErrInvalidSecret is returned when a callback carries a secret that
	// does not match the configured shared secret.
	ErrInvalidSecret = errors.New("queue: invalid secret key")

	// ErrTaskFailed wraps any error raised by a task's underlying work.
	// The failure is persisted on the task record before this surfaces.
	ErrTaskFailed = errors.New("queue: task execution failed")

	// ErrInvalidPayload is returned when a task payload cannot be
	// unmarshaled into the expected type.
	ErrInvalidPayload = errors.New("queue: invalid payload")

	// ErrInvalidEnvelope is returned when a dispatch envelope is missing
	// one of its reserved fields.
	ErrInvalidEnvelope = errors.New("queue: invalid envelope")

	// ErrSecretRequired is returned when a backend is created without a
	// shared secret.
	ErrSecretRequired = errors.New("queue: secret key is required")

	// ErrStoreRequired is returned when a backend is created without a
	// task record store.
	ErrStoreRequired = errors.New("queue: record store is required")

	// ErrDispatcherRequired is returned when a backend is created without
	// a dispatcher.
	ErrDispatcherRequired = errors.New("queue: dispatcher is required")

	// ErrDispatchFailed wraps errors from the external dispatch mechanism.
	ErrDispatchFailed = errors.New("queue: failed to dispatch task")

	// ErrQueryFailed wraps unexpected database errors from the record store.
	ErrQueryFailed = errors.New("queue: query failed")
)
