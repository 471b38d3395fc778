package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"lodgr/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/tern/v2/migrate"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// VersionTable records the applied schema version.
const VersionTable = "public.schema_version"

// Migrations returns the embedded migration files rooted at the directory
// that holds them.
func Migrations() (fs.FS, error) {
	return fs.Sub(migrationFS, "migrations")
}

// Migrate applies pending embedded migrations over a dedicated connection.
// tern holds a Postgres advisory lock while it runs, so concurrent invocations
// apply each migration once. It returns how many migrations were applied.
func Migrate(ctx context.Context, config utils.DatabaseConfig, log *zap.Logger) (int, error) {
	conn, err := pgx.Connect(ctx, ConnString(config))
	if err != nil {
		return 0, fmt.Errorf("connect for migrations: %w", err)
	}
	defer conn.Close(ctx)

	migrator, err := newMigrator(ctx, conn)
	if err != nil {
		return 0, err
	}
	migrator.OnStart = func(sequence int32, name, direction, _ string) {
		log.Info("Applying migration",
			zap.Int32("version", sequence),
			zap.String("name", name),
			zap.String("direction", direction),
		)
	}

	before, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	if err := migrator.Migrate(ctx); err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	after, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	return int(after - before), nil
}

// newMigrator loads the embedded migrations. A nil conn only loads and
// parses them.
func newMigrator(ctx context.Context, conn *pgx.Conn) (*migrate.Migrator, error) {
	migrator, err := migrate.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	fsys, err := Migrations()
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	if err := migrator.LoadMigrations(fsys); err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	return migrator, nil
}
