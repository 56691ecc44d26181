// Package mailer provides templated email sending over pluggable delivery
// providers.
//
// The package separates delivery (via providers implementing Sender) from
// rendering, so providers can be swapped while the template system stays
// the same.
//
// # Architecture
//
//   - Sender: interface that delivery providers implement
//   - Renderer: expands a stored template into a ready-to-send Email
//   - Mailer: high-level client combining a template store, a Renderer,
//     and a Sender
//
// # Usage
//
//	store := templates.NewStore(pool)
//	sender, err := mailgun.New(mailgun.Config{
//		APIKey: os.Getenv("MAILGUN_API_KEY"),
//		Domain: "mg.example.com",
//	})
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(store, sender, mailer.NewRenderer())
//
//	err = m.Send(ctx, mailer.SendParams{
//		To:       "user@example.com",
//		Template: "welcome",
//		Data:     map[string]any{"name": "Ann"},
//	})
//
// # Templates
//
// Subject, text body, and HTML body all use Go template syntax. The bodies
// render independently: a template without an HTML body produces a
// text-only email. Rendering fails with ErrRenderFailed when a referenced
// variable is absent from the data (missingkey=error) and with
// ErrTemplateSyntax when a body cannot be parsed.
//
// # Custom providers
//
// Implement the Sender interface to add support for other providers:
//
//	type MySender struct{}
//
//	func (s *MySender) Send(ctx context.Context, email *mailer.Email) error {
//		// deliver using your provider's API
//		return nil
//	}
package mailer
