// Package db provides PostgreSQL connection pooling and schema
// migration helpers built on pgx and goose.
//
// Connect opens a pgxpool.Pool with retry and ping verification:
//
//	pool, err := db.Connect(ctx, db.Config{ConnectionString: url})
//
// Migrate applies embedded goose migrations against the pool:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, "postal_migrations", log)
package db
