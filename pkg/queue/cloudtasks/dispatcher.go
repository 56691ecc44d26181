// Package cloudtasks dispatches task envelopes through Google Cloud
// Tasks. Each queued task becomes an HTTP-target Cloud Task that POSTs
// the JSON envelope back to the application's callback endpoint.
package cloudtasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	gax "github.com/googleapis/gax-go/v2"

	"github.com/dmitrymomot/postal/pkg/queue"
)

var (
	// ErrMissingProject indicates the GCP project id was not configured.
	ErrMissingProject = errors.New("cloudtasks: project is required")

	// ErrMissingLocation indicates the queue location was not configured.
	ErrMissingLocation = errors.New("cloudtasks: location is required")

	// ErrMissingQueue indicates the queue name was not configured.
	ErrMissingQueue = errors.New("cloudtasks: queue is required")

	// ErrMissingCallbackURL indicates the callback URL was not configured.
	ErrMissingCallbackURL = errors.New("cloudtasks: callback URL is required")

	// ErrCreateFailed wraps Cloud Tasks API errors.
	ErrCreateFailed = errors.New("cloudtasks: failed to create task")
)

// Config holds Cloud Tasks dispatcher configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Project     string `env:"CLOUDTASKS_PROJECT"`
	Location    string `env:"CLOUDTASKS_LOCATION"`
	Queue       string `env:"CLOUDTASKS_QUEUE"`
	CallbackURL string `env:"CLOUDTASKS_CALLBACK_URL"`
}

// Validate fails fast on incomplete configuration.
func (c Config) Validate() error {
	if c.Project == "" {
		return ErrMissingProject
	}
	if c.Location == "" {
		return ErrMissingLocation
	}
	if c.Queue == "" {
		return ErrMissingQueue
	}
	if c.CallbackURL == "" {
		return ErrMissingCallbackURL
	}
	return nil
}

// api is the slice of the Cloud Tasks client the dispatcher uses.
type api interface {
	CreateTask(ctx context.Context, req *cloudtaskspb.CreateTaskRequest, opts ...gax.CallOption) (*cloudtaskspb.Task, error)
	Close() error
}

// Dispatcher implements queue.Dispatcher on top of Google Cloud Tasks.
type Dispatcher struct {
	client    api
	queuePath string
	url       string
}

// New creates a Cloud Tasks dispatcher. Credentials are resolved from the
// environment the way the Google Cloud SDK does.
func New(ctx context.Context, cfg Config) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := cloudtasks.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("cloudtasks: create client: %w", err)
	}

	return newWithClient(client, cfg), nil
}

func newWithClient(client api, cfg Config) *Dispatcher {
	return &Dispatcher{
		client:    client,
		queuePath: fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.Project, cfg.Location, cfg.Queue),
		url:       cfg.CallbackURL,
	}
}

// Dispatch implements queue.Dispatcher. The Cloud Task is named after the
// queued task record id, so a duplicate Dispatch for the same record is
// rejected by Cloud Tasks rather than delivered twice.
func (d *Dispatcher) Dispatch(ctx context.Context, env queue.Envelope) (string, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return "", err
	}

	task, err := d.client.CreateTask(ctx, &cloudtaskspb.CreateTaskRequest{
		Parent: d.queuePath,
		Task: &cloudtaskspb.Task{
			Name: fmt.Sprintf("%s/tasks/%d", d.queuePath, env.TaskID),
			MessageType: &cloudtaskspb.Task_HttpRequest{
				HttpRequest: &cloudtaskspb.HttpRequest{
					Url:        d.url,
					HttpMethod: cloudtaskspb.HttpMethod_POST,
					Headers:    map[string]string{"Content-Type": "application/json"},
					Body:       body,
				},
			},
		},
	})
	if err != nil {
		return "", errors.Join(ErrCreateFailed, err)
	}

	return task.GetName(), nil
}

// Close releases the underlying client.
func (d *Dispatcher) Close() error {
	return d.client.Close()
}
