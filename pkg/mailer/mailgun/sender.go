// Package mailgun provides a mailer.Sender backed by the Mailgun
// Messages API.
package mailgun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/postal/pkg/mailer"
)

const defaultBaseURL = "https://api.mailgun.net"

var (
	// ErrMissingAPIKey indicates the API key was not configured.
	ErrMissingAPIKey = errors.New("mailgun: API key is required")

	// ErrMissingDomain indicates the sending domain was not configured.
	ErrMissingDomain = errors.New("mailgun: sending domain is required")

	// ErrSendFailed indicates the Mailgun API rejected the message.
	ErrSendFailed = errors.New("mailgun: failed to send email")
)

// Sender implements mailer.Sender using the Mailgun HTTP API.
type Sender struct {
	client  *http.Client
	config  Config
	baseURL string
}

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithBaseURL overrides the API base URL, e.g. for the EU region
// (https://api.eu.mailgun.net) or a test server.
func WithBaseURL(u string) Option {
	return func(s *Sender) {
		if u != "" {
			s.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// New creates a Mailgun sender.
// Fails fast when the API key or sending domain is missing; no network
// call is attempted until Send.
func New(cfg Config, opts ...Option) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Domain == "" {
		return nil, ErrMissingDomain
	}

	s := &Sender{
		client:  &http.Client{Timeout: 30 * time.Second},
		config:  cfg,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send implements mailer.Sender.
// Any non-2xx response is a hard failure; retries belong to the caller.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	form := url.Values{}
	form.Set("from", s.from(email))
	form.Set("to", email.To)
	form.Set("subject", email.Subject)
	form.Set("text", email.Text)
	if email.HTML != "" {
		form.Set("html", email.HTML)
	}

	endpoint := fmt.Sprintf("%s/v3/%s/messages", s.baseURL, s.config.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	req.SetBasicAuth("api", s.config.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// from resolves the sender address: explicit override first, then the
// configured sender, then a no-reply fallback on the sending domain.
func (s *Sender) from(email *mailer.Email) string {
	if email.From != "" {
		return email.From
	}
	if s.config.SenderEmail != "" {
		return mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}
	return fmt.Sprintf("no-reply@%s", s.config.Domain)
}
