package postal

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/postal/pkg/db"
	"github.com/dmitrymomot/postal/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsTable = "postal_migrations"

// Migrate applies the embedded schema migrations for templates and
// tasks. Call once at startup before constructing the Service.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	if log == nil {
		log = logger.NewNope()
	}
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return errors.Join(db.ErrApplyMigrations, err)
	}
	return db.Migrate(ctx, pool, sub, migrationsTable, log)
}
