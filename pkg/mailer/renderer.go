package mailer

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/postal/pkg/templates"
)

// Renderer expands stored templates into ready-to-send emails.
// Subject and both bodies use Go template syntax ({{.variable}});
// a referenced variable missing from the data is a hard error.
type Renderer struct {
	md               goldmark.Markdown
	markdownFallback bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMarkdownFallback derives an HTML body from the rendered text body
// (treated as markdown) when a template has no HTML variant of its own.
func WithMarkdownFallback() RendererOption {
	return func(r *Renderer) {
		r.markdownFallback = true
	}
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		md: goldmark.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces an Email from a template, the recipient address, and
// template data. The HTML and text bodies render independently: an empty
// HTML body stays empty unless markdown fallback is enabled. The recipient
// is threaded through verbatim; it is not a template input unless the
// caller also puts it into data.
func (r *Renderer) Render(tpl *templates.Template, to string, data map[string]any) (*Email, error) {
	if to == "" {
		return nil, ErrNoRecipient
	}

	subject, err := r.renderText("subject", tpl.Subject, data)
	if err != nil {
		return nil, err
	}

	text, err := r.renderText("text", tpl.TextBody, data)
	if err != nil {
		return nil, err
	}

	html := ""
	switch {
	case tpl.HTMLBody != "":
		html, err = r.renderHTML(tpl.HTMLBody, data)
		if err != nil {
			return nil, err
		}
	case r.markdownFallback:
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(text), &buf); err != nil {
			return nil, errors.Join(ErrRenderFailed, err)
		}
		html = buf.String()
	}

	return &Email{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	}, nil
}

func (r *Renderer) renderText(name, body string, data map[string]any) (string, error) {
	tmpl, err := texttemplate.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateSyntax, name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	return buf.String(), nil
}

// renderHTML uses html/template so interpolated variables are contextually
// escaped and cannot break out of the surrounding markup.
func (r *Renderer) renderHTML(body string, data map[string]any) (string, error) {
	tmpl, err := htmltemplate.New("html").Option("missingkey=error").Parse(body)
	if err != nil {
		return "", fmt.Errorf("%w: html: %v", ErrTemplateSyntax, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: html: %v", ErrRenderFailed, err)
	}
	return buf.String(), nil
}
