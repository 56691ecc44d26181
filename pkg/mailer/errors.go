package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have a recipient")

	// ErrTemplateSyntax indicates a template body could not be parsed.
	ErrTemplateSyntax = errors.New("mailer: invalid template syntax")

	// ErrRenderFailed indicates template execution failed, most commonly
	// because a referenced variable was absent from the data.
	ErrRenderFailed = errors.New("mailer: failed to render template")

	// ErrSendFailed indicates the delivery provider rejected the message.
	ErrSendFailed = errors.New("mailer: failed to send email")
)
