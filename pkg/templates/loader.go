package templates

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Upserter is the minimal store surface the loader writes through.
type Upserter interface {
	Upsert(ctx context.Context, tpl *Template) (*Template, error)
}

// frontmatter holds the metadata block of a template file.
type frontmatter struct {
	Name    string `yaml:"name"`
	Subject string `yaml:"subject"`
	HTML    string `yaml:"html"`
}

// Load syncs template files from the filesystem into the store.
// Every .md and .txt file is parsed as YAML frontmatter followed by the
// plain-text body. The frontmatter must carry a subject; the template name
// defaults to the filename without extension. An optional html field holds
// the HTML body variant.
//
// Example file:
//
//	---
//	subject: Welcome {{.name}}!
//	---
//	Hi {{.name}}, welcome aboard.
func Load(ctx context.Context, store Upserter, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("templates: read %s: %w", p, err)
		}

		tpl, err := Parse(content)
		if err != nil {
			return fmt.Errorf("templates: parse %s: %w", p, err)
		}
		if tpl.Name == "" {
			tpl.Name = strings.TrimSuffix(path.Base(p), ext)
		}

		if _, err := store.Upsert(ctx, tpl); err != nil {
			return fmt.Errorf("templates: save %s: %w", p, err)
		}
		return nil
	})
}

// Parse extracts frontmatter metadata and the text body from file content.
// Content without a frontmatter block is rejected because the subject line
// has nowhere else to live.
func Parse(content []byte) (*Template, error) {
	delimiter := []byte("---")

	if !bytes.HasPrefix(content, delimiter) {
		return nil, fmt.Errorf("%w: missing opening delimiter", ErrInvalidFrontmatter)
	}

	rest := bytes.TrimPrefix(content, delimiter)
	rest = bytes.TrimLeft(rest, "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	endIdx := bytes.Index(rest, delimiter)
	if endIdx == -1 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	var meta frontmatter
	if err := yaml.Unmarshal(rest[:endIdx], &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	if meta.Subject == "" {
		return nil, ErrMissingSubject
	}

	body := rest[endIdx+len(delimiter):]
	body = bytes.TrimLeft(body, "\r\n")

	return &Template{
		Name:     meta.Name,
		Subject:  meta.Subject,
		HTMLBody: meta.HTML,
		TextBody: string(bytes.TrimRight(body, "\n")),
	}, nil
}
