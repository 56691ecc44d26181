// Package queue implements a callback-triggered task backend: a caller
// enqueues a named unit of work, an external dispatch mechanism later
// delivers the work's envelope to an execution endpoint, and the outcome
// is durably recorded on a task record.
//
// # Model
//
// Each queued task gets a database record that moves through a one-way
// lifecycle: pending, then exactly one terminal write to completed (with
// a result string) or failed (with an error and a captured stack trace).
// The terminal write is conditional on the record still being pending, so
// at-least-once delivery from the dispatcher cannot overwrite the first
// outcome.
//
// Execution is synchronous within the handling of one callback: there is
// no worker loop, no internal retry, and no scheduling. Retries, if any,
// belong to the external dispatch mechanism.
//
// # Registration
//
// Task implementations live in a process-local registry keyed by stable
// task names. Populate it during application bootstrap, identically in
// every deployable instance, before the callback route is mounted:
//
//	backend, err := queue.New(queue.NewStore(pool), dispatcher, secret)
//	if err != nil {
//		return err
//	}
//	backend.Register(queue.NewTask("send_email", sendEmail))
//
// A process that receives a callback for a name it never registered fails
// the execution with ErrUnknownTask.
//
// # Dispatchers
//
// The Dispatcher interface abstracts the external delivery mechanism.
// Production deployments use the Google Cloud Tasks dispatcher in
// queue/cloudtasks; development and tests use the in-process brokers in
// queue/local.
package queue
