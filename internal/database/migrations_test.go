package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openRaw(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableColumns(t *testing.T, db DBTX, table string) []string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), "SELECT name FROM pragma_table_info('"+table+"')")
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestRunMigrations(t *testing.T) {
	db := TestDB(t)
	ctx := context.Background()

	for _, table := range []string{"users", "expenses"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err)
		require.Equal(t, table, name)
	}

	version, dirty, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(LatestSchemaVersion), version)

	require.Equal(t,
		[]string{"id", "username", "password", "fullName", "dateOfBirth", "address", "occupation"},
		tableColumns(t, db, "users"))
	require.Equal(t,
		[]string{"id", "userId", "amount", "category", "description", "date", "type"},
		tableColumns(t, db, "expenses"))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	require.NoError(t, RunMigrations(path, MigrationOptions{}))
	require.NoError(t, RunMigrations(path, MigrationOptions{}))
}

func TestMigration_DropsProfileImageAndKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	ctx := context.Background()

	require.NoError(t, migrateTo(path, 1))

	raw := openRaw(t, path)
	_, err := raw.ExecContext(ctx, `
		INSERT INTO users (id, username, password, fullName, dateOfBirth, address, occupation, profileImage)
		VALUES (7, 'lan', 'plain-secret', 'Lan Tran', '1990-01-02', 'Hanoi', 'Teacher', 'aGVsbG8=')
	`)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `
		INSERT INTO expenses (userId, amount, category, description, date, type) VALUES
			(7, 12.5, 'Food', 'pho', '2024-02-01', 'Chi tiêu'),
			(7, 100, 'Salary', '', '2024-02-05', 'thu'),
			(7, 3, 'Transport', '', '2024-02-06', 'chi'),
			(7, 50, 'Bonus', '', '2024-02-07', 'Thu nhập')
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := Open(ctx, path, MigrationOptions{})
	require.NoError(t, err)
	defer db.Close()

	t.Run("profile image column is gone", func(t *testing.T) {
		require.NotContains(t, tableColumns(t, db, "users"), "profileImage")
	})

	t.Run("user row survives with the same id", func(t *testing.T) {
		var username, fullName, address, occupation, password string
		err := db.QueryRowContext(ctx,
			`SELECT username, fullName, address, occupation, password FROM users WHERE id = 7`,
		).Scan(&username, &fullName, &address, &occupation, &password)
		require.NoError(t, err)
		require.Equal(t, "lan", username)
		require.Equal(t, "Lan Tran", fullName)
		require.Equal(t, "Hanoi", address)
		require.Equal(t, "Teacher", occupation)
		require.Equal(t, "plain-secret", password)
	})

	t.Run("expenses survive the users rebuild", func(t *testing.T) {
		var count int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE userId = 7`).Scan(&count))
		require.Equal(t, 4, count)
	})

	t.Run("legacy type literals are normalized", func(t *testing.T) {
		rows, err := db.QueryContext(ctx, `SELECT DISTINCT type FROM expenses ORDER BY type`)
		require.NoError(t, err)
		defer rows.Close()

		var types []string
		for rows.Next() {
			var typ string
			require.NoError(t, rows.Scan(&typ))
			types = append(types, typ)
		}
		require.Equal(t, []string{"expense", "income"}, types)
	})

	t.Run("username uniqueness is restored", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (username, password, fullName, dateOfBirth) VALUES ('lan', 'x', 'Other', '2000-01-01')
		`)
		require.Error(t, err)
		require.True(t, IsUniqueViolation(err))
	})

	t.Run("cascade still points at the rebuilt table", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = 7`)
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&count))
		require.Zero(t, count)
	})
}

func TestMigration_FailureKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.db")
	ctx := context.Background()

	require.NoError(t, migrateTo(path, 1))

	raw := openRaw(t, path)
	_, err := raw.ExecContext(ctx, `
		INSERT INTO users (username, password, fullName, dateOfBirth) VALUES ('minh', 'pw', 'Minh', '1988-08-08')
	`)
	require.NoError(t, err)
	// A stray table with the staging name makes migration 2 fail.
	_, err = raw.ExecContext(ctx, `CREATE TABLE users_new (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	t.Run("failure is reported and nothing is dropped", func(t *testing.T) {
		err := RunMigrations(path, MigrationOptions{})
		require.Error(t, err)

		raw := openRaw(t, path)
		var username string
		require.NoError(t, raw.QueryRowContext(ctx, `SELECT username FROM users`).Scan(&username))
		require.Equal(t, "minh", username)
		require.Contains(t, tableColumns(t, raw, "users"), "profileImage")
	})

	t.Run("retry after a dirty failure still refuses", func(t *testing.T) {
		require.Error(t, RunMigrations(path, MigrationOptions{}))
	})

	t.Run("destructive fallback recreates the schema", func(t *testing.T) {
		require.NoError(t, RunMigrations(path, MigrationOptions{AllowDestructive: true}))

		raw := openRaw(t, path)
		var count int
		require.NoError(t, raw.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
		require.Zero(t, count)

		version, dirty, err := SchemaVersion(ctx, raw)
		require.NoError(t, err)
		require.False(t, dirty)
		require.Equal(t, uint(LatestSchemaVersion), version)
	})
}

func TestMigration_DirtyFirstVersionIsRetried(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirty.db")
	ctx := context.Background()

	require.NoError(t, migrateTo(path, 1))

	raw := openRaw(t, path)
	_, err := raw.ExecContext(ctx, `
		INSERT INTO users (username, password, fullName, dateOfBirth) VALUES ('lan', 'pw', 'Lan', '1990-01-01')
	`)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `UPDATE schema_migrations SET dirty = 1`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	require.NoError(t, RunMigrations(path, MigrationOptions{}))

	raw = openRaw(t, path)
	version, dirty, err := SchemaVersion(ctx, raw)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(LatestSchemaVersion), version)

	var username string
	require.NoError(t, raw.QueryRowContext(ctx, `SELECT username FROM users`).Scan(&username))
	require.Equal(t, "lan", username)
}
