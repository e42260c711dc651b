package database

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationLockID = 7340021

// TxBeginner is the subset of *pgxpool.Pool used to apply migrations.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ TxBeginner = (*pgxpool.Pool)(nil)

// Migrate applies every embedded .sql file not yet recorded in schema_migrations,
// in filename order. The whole run is one transaction holding a transaction-scoped
// advisory lock, so concurrent instances serialize and a failed file leaves nothing behind.
func Migrate(ctx context.Context, pool TxBeginner) error {
	log := zap.L().With(zap.String("component", "database.migrate"))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "start migration tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrationLockID); err != nil {
		return eris.Wrap(err, "acquire migration lock")
	}

	if _, err := tx.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return eris.Wrap(err, "ensure schema_migrations")
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return eris.Wrap(err, "read migration dir")
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	applied, err := appliedMigrations(ctx, tx)
	if err != nil {
		return err
	}

	var newlyApplied []string
	for _, entry := range entries {
		name := entry.Name()
		if applied[name] {
			continue
		}

		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return eris.Wrapf(err, "read migration %s", name)
		}
		if _, err := tx.Exec(ctx, string(data)); err != nil {
			return eris.Wrapf(err, "apply migration %s", name)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", name); err != nil {
			return eris.Wrapf(err, "record migration %s", name)
		}
		newlyApplied = append(newlyApplied, name)
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "commit migrations")
	}

	for _, name := range newlyApplied {
		log.Info("migration applied", zap.String("file", name))
	}
	return nil
}

func appliedMigrations(ctx context.Context, tx pgx.Tx) (map[string]bool, error) {
	rows, err := tx.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "scan migration row")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
