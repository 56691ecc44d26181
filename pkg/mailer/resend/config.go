package resend

import "errors"

// ErrMissingAPIKey indicates the API key was not configured.
var ErrMissingAPIKey = errors.New("resend: API key is required")

// Config holds Resend delivery provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME"`
}
