package templates_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postal/pkg/templates"
)

type fakeStore struct {
	saved map[string]*templates.Template
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]*templates.Template)}
}

func (f *fakeStore) Upsert(_ context.Context, tpl *templates.Template) (*templates.Template, error) {
	saved := *tpl
	saved.ID = int64(len(f.saved) + 1)
	f.saved[tpl.Name] = &saved
	return &saved, nil
}

func (f *fakeStore) GetByName(_ context.Context, name string) (*templates.Template, error) {
	tpl, ok := f.saved[name]
	if !ok {
		return nil, templates.ErrNotFound
	}
	return tpl, nil
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("full frontmatter", func(t *testing.T) {
		t.Parallel()

		content := []byte(`---
name: welcome
subject: Welcome {{.name}}!
html: "<p>Hi {{.name}}</p>"
---
Hi {{.name}}, welcome aboard.
`)
		tpl, err := templates.Parse(content)
		require.NoError(t, err)
		assert.Equal(t, "welcome", tpl.Name)
		assert.Equal(t, "Welcome {{.name}}!", tpl.Subject)
		assert.Equal(t, "<p>Hi {{.name}}</p>", tpl.HTMLBody)
		assert.Equal(t, "Hi {{.name}}, welcome aboard.", tpl.TextBody)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()

		_, err := templates.Parse([]byte("---\nname: welcome\n---\nbody"))
		require.ErrorIs(t, err, templates.ErrMissingSubject)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		t.Parallel()

		_, err := templates.Parse([]byte("just a body"))
		require.ErrorIs(t, err, templates.ErrInvalidFrontmatter)
	})

	t.Run("unterminated frontmatter", func(t *testing.T) {
		t.Parallel()

		_, err := templates.Parse([]byte("---\nsubject: Hello\nbody without closing"))
		require.ErrorIs(t, err, templates.ErrInvalidFrontmatter)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := templates.Parse([]byte("---\nsubject: [unbalanced\n---\nbody"))
		require.ErrorIs(t, err, templates.ErrInvalidFrontmatter)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"welcome.md": &fstest.MapFile{
			Data: []byte("---\nsubject: Welcome!\n---\nHi {{.name}}"),
		},
		"nested/reset.txt": &fstest.MapFile{
			Data: []byte("---\nname: password_reset\nsubject: Reset your password\n---\nToken: {{.token}}"),
		},
		"ignored.html": &fstest.MapFile{
			Data: []byte("<p>not a template file</p>"),
		},
	}

	store := newFakeStore()
	require.NoError(t, templates.Load(context.Background(), store, fsys))

	require.Len(t, store.saved, 2)

	welcome := store.saved["welcome"]
	require.NotNil(t, welcome, "name should default to the filename")
	assert.Equal(t, "Welcome!", welcome.Subject)
	assert.Equal(t, "Hi {{.name}}", welcome.TextBody)

	reset := store.saved["password_reset"]
	require.NotNil(t, reset, "explicit name should win over the filename")
	assert.Equal(t, "Token: {{.token}}", reset.TextBody)
}

func TestLoad_ParseError(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"broken.md": &fstest.MapFile{Data: []byte("no frontmatter")},
	}

	err := templates.Load(context.Background(), newFakeStore(), fsys)
	require.ErrorIs(t, err, templates.ErrInvalidFrontmatter)
}
