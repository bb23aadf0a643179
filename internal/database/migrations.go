package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"gitlab.com/yelinaung/expense-manager/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// LatestSchemaVersion is the version the embedded migrations end at.
const LatestSchemaVersion = 3

// MigrationOptions controls failure handling during schema migration.
type MigrationOptions struct {
	// AllowDestructive discards the database file and recreates the schema
	// when migration fails. Only safe before any user data was deployed.
	AllowDestructive bool
}

// RunMigrations brings the database file at path up to LatestSchemaVersion.
// Each migration file runs in its own transaction.
func RunMigrations(path string, opts MigrationOptions) error {
	err := migrateTo(path, 0)
	if err == nil {
		return nil
	}

	if !opts.AllowDestructive {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Log.Warn().Err(err).Msg("Migration failed, recreating database from scratch")

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if rmErr := os.Remove(path + suffix); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("unable to remove database file: %w", rmErr)
		}
	}

	if err := migrateTo(path, 0); err != nil {
		return fmt.Errorf("migration failed after reset: %w", err)
	}
	return nil
}

// migrateTo migrates up to version, or to the latest version when version is 0.
func migrateTo(path string, version uint) error {
	// Foreign keys stay off on this connection so table rebuilds do not
	// cascade into child rows.
	migrateDB, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := recoverDirty(m); err != nil {
		return err
	}

	if version == 0 {
		err = m.Up()
	} else {
		err = m.Migrate(version)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// recoverDirty resets a dirty version left by an interrupted migration.
// The failed file ran inside a rolled-back transaction, so the schema is
// still at the previous version.
func recoverDirty(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if !dirty {
		return nil
	}

	previous := int(version) - 1
	if previous == 0 {
		previous = migratedb.NilVersion
	}

	logger.Log.Warn().
		Uint("dirty_version", version).
		Int("reset_to", previous).
		Msg("Schema version is dirty, retrying interrupted migration")

	if err := m.Force(previous); err != nil {
		return fmt.Errorf("reset dirty schema version: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied schema version of an open database.
// A database without migrations reports version 0.
func SchemaVersion(ctx context.Context, db DBTX) (version uint, dirty bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`)
	if err := row.Scan(&version, &dirty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}
