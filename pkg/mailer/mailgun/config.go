package mailgun

// Config holds Mailgun delivery provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"MAILGUN_API_KEY"`
	Domain      string `env:"MAILGUN_DOMAIN"`
	SenderEmail string `env:"MAILGUN_FROM_EMAIL"`
	SenderName  string `env:"MAILGUN_FROM_NAME"`
}
