package mailer

import "context"

// Sender defines the minimal interface that delivery providers implement.
// It accepts a fully-rendered Email and handles the actual delivery.
type Sender interface {
	// Send delivers an email message.
	// The Email must have To, Subject, and Text already set.
	// Returns an error if delivery fails; no retries happen at this level.
	Send(ctx context.Context, email *Email) error
}
