// Package postal is a plug-in email-dispatch helper for Go web
// applications: templated emails stored in Postgres, pluggable delivery
// providers, and optional deferred sending through a task backend.
//
// # Setup
//
// The host application owns the pgx pool and the HTTP router; postal
// plugs into both:
//
//	pool, err := db.Connect(ctx, dbCfg)
//	if err != nil { ... }
//
//	if err := postal.Migrate(ctx, pool, log); err != nil { ... }
//
//	svc, err := postal.New(ctx, cfg, pool, postal.WithLogger(log))
//	if err != nil { ... }
//	defer svc.Close(ctx)
//
//	mux.Handle("/api/", svc.Handler())
//
// # Sending
//
// SendEmail renders and delivers synchronously; EnqueueEmail persists a
// task record and hands an envelope to the configured dispatcher, which
// later POSTs it back to the callback endpoint for execution:
//
//	err := svc.SendEmail(ctx, "welcome", "ann@example.com", map[string]any{"name": "Ann"})
//
//	receipt, err := svc.EnqueueEmail(ctx, "welcome", "ann@example.com", vars)
//
// # Providers and task systems
//
// Config.Provider selects console, mailgun or resend delivery.
// Config.TaskSystem selects cloudtasks (Google Cloud Tasks) or local
// dispatch; the local system runs tasks inline, through an in-memory
// queue, or through a Redis list depending on Config.Broker.
//
// Custom tasks can be registered on the shared backend before the
// callback route is mounted:
//
//	svc.Backend().Register(queue.NewTask("reports:nightly", runNightly))
package postal
