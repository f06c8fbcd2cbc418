package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestEmbeddedFiles(t *testing.T) {
	names, err := fs.Glob(files, "sql/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "sql/000001_init.up.sql")
	assert.Contains(t, names, "sql/000001_init.down.sql")
}

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container is unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRunMigrations(t *testing.T) {
	db := getTestDB(t)

	require.NoError(t, Run(db))

	assert.True(t, tableExists(t, db, "accounts"), "Table 'accounts' should exist")
	assert.True(t, tableExists(t, db, "entries"), "Table 'entries' should exist")

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public'
			AND tablename = 'entries'
			AND indexname = 'idx_entries_account_created'
		)
	`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "Index should exist")
}

func TestMigrationIdempotency(t *testing.T) {
	db := getTestDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db), "Running migrations twice should not fail")
}

func TestNicknameIsUnique(t *testing.T) {
	db := getTestDB(t)
	require.NoError(t, Run(db))

	insert := `INSERT INTO accounts (id, nickname, password_record) VALUES ($1, $2, 'a:b')`
	_, err := db.Exec(insert, "550e8400-e29b-41d4-a716-446655440000", "alice")
	require.NoError(t, err)
	_, err = db.Exec(insert, "550e8400-e29b-41d4-a716-446655440001", "alice")
	assert.Error(t, err)
}
