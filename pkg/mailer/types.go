package mailer

import "fmt"

// Email is a fully-rendered message ready for delivery.
// It is a transient value: produced by the renderer, consumed by a Sender,
// never persisted. HTML is optional; an empty string means the message has
// no HTML variant and providers should send text only.
type Email struct {
	To      string // Recipient address
	From    string // Optional sender override (provider default otherwise)
	Subject string // Rendered subject line
	HTML    string // Rendered HTML body, may be empty
	Text    string // Rendered plain-text body
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
