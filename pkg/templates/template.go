package templates

import "time"

// Template is a named email template stored in the database.
// The text body is always present; the HTML body is optional and an empty
// string means the template has no HTML variant.
type Template struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Subject   string
	HTMLBody  string
	TextBody  string
	ID        int64
}
