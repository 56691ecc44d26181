package templates

import "errors"

var (
	// ErrNotFound is returned when no template with the requested name exists.
	ErrNotFound = errors.New("templates: template not found")

	// ErrEmptyName is returned when a template is saved without a name.
	ErrEmptyName = errors.New("templates: template name is required")

	// ErrMissingSubject is returned when a loaded template file has no
	// Subject field in its frontmatter.
	ErrMissingSubject = errors.New("templates: subject is required")

	// ErrInvalidFrontmatter is returned when a template file carries
	// malformed YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("templates: invalid frontmatter")

	// ErrQueryFailed wraps unexpected database errors.
	ErrQueryFailed = errors.New("templates: query failed")
)
