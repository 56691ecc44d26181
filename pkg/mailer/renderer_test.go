package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postal/pkg/templates"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewRenderer()

	tpl := &templates.Template{
		Name:     "welcome",
		Subject:  "Welcome {{.name}}!",
		TextBody: "Hi {{.name}}, your plan is {{.plan}}.",
		HTMLBody: "<p>Hi {{.name}}</p>",
	}

	email, err := r.Render(tpl, "ann@example.com", map[string]any{
		"name": "Ann",
		"plan": "pro",
	})
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", email.To)
	assert.Equal(t, "Welcome Ann!", email.Subject)
	assert.Equal(t, "Hi Ann, your plan is pro.", email.Text)
	assert.Equal(t, "<p>Hi Ann</p>", email.HTML)
	assert.NotContains(t, email.Text, "{{", "no unsubstituted placeholders")
}

func TestRenderer_Render_NoHTMLBody(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	tpl := &templates.Template{
		Subject:  "Hello",
		TextBody: "Hi {{.name}}",
	}

	email, err := r.Render(tpl, "a@b.com", map[string]any{"name": "Ann"})
	require.NoError(t, err)
	assert.Empty(t, email.HTML, "missing HTML body is a legitimate state")
	assert.Equal(t, "Hi Ann", email.Text)
}

func TestRenderer_Render_MarkdownFallback(t *testing.T) {
	t.Parallel()

	r := NewRenderer(WithMarkdownFallback())
	tpl := &templates.Template{
		Subject:  "Hello",
		TextBody: "Hi **{{.name}}**",
	}

	email, err := r.Render(tpl, "a@b.com", map[string]any{"name": "Ann"})
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "<strong>Ann</strong>")
	assert.Equal(t, "Hi **Ann**", email.Text, "text body stays plain")
}

func TestRenderer_Render_HTMLEscapesVariables(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	tpl := &templates.Template{
		Subject:  "Hello",
		TextBody: "Hi {{.name}}",
		HTMLBody: "<p>Hi {{.name}}</p>",
	}

	email, err := r.Render(tpl, "a@b.com", map[string]any{"name": "<script>x</script>"})
	require.NoError(t, err)
	assert.NotContains(t, email.HTML, "<script>")
}

func TestRenderer_Render_MissingVariable(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	tpl := &templates.Template{
		Subject:  "Hello",
		TextBody: "Hi {{.name}}",
	}

	_, err := r.Render(tpl, "a@b.com", map[string]any{})
	require.ErrorIs(t, err, ErrRenderFailed)
}

func TestRenderer_Render_InvalidSyntax(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	tpl := &templates.Template{
		Subject:  "Hello",
		TextBody: "Hi {{.name",
	}

	_, err := r.Render(tpl, "a@b.com", map[string]any{"name": "Ann"})
	require.ErrorIs(t, err, ErrTemplateSyntax)
}

func TestRenderer_Render_NoRecipient(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	_, err := r.Render(&templates.Template{Subject: "S", TextBody: "T"}, "", nil)
	require.ErrorIs(t, err, ErrNoRecipient)
}
