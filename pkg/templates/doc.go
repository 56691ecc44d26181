// Package templates stores named email templates in PostgreSQL.
//
// A template is a subject line plus a required plain-text body and an
// optional HTML body. Templates are read by the mailer's renderer and
// managed out-of-band, either directly through Store.Upsert or by syncing
// embedded template files with Load.
//
// # Usage
//
//	store := templates.NewStore(pool)
//	tpl, err := store.GetByName(ctx, "welcome")
//
// Seed templates from an embedded filesystem at startup:
//
//	//go:embed emails/*.md
//	var emailFS embed.FS
//
//	if err := templates.Load(ctx, store, emailFS); err != nil {
//		return err
//	}
//
// Wrap the store with CachedStore when templates are read on every send:
//
//	cached := templates.NewCachedStore(store, 10*time.Minute)
package templates
