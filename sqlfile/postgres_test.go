package sqlfile_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/sagarc03/stowage"
	"github.com/sagarc03/stowage/sqlfile"
)

var (
	pgDSN  string
	pgOnce sync.Once
)

// sharedPostgresDSN starts one PostgreSQL container for the whole package.
func sharedPostgresDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed tests in short mode")
	}

	pgOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = testcontainers.TerminateContainer(pgContainer)
			t.Fatalf("failed to get connection string: %v", err)
		}

		pgDSN = dsn
	})

	return pgDSN
}

func newPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", sharedPostgresDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS docs (id INT PRIMARY KEY, attachment TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`TRUNCATE docs`)
	require.NoError(t, err)

	return db
}

func TestFileColumn_PostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	db := newPostgresDB(t)
	files := sqlfile.NewFileColumn(backend)

	bound, err := sqlfile.Bind(stowage.NewFile("uploads/test-file.txt", backend))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO docs (id, attachment) VALUES (1, $1)`, bound)
	require.NoError(t, err)

	var got *stowage.File
	err = db.QueryRowContext(ctx, `SELECT attachment FROM docs WHERE id = 1`).Scan(files.Scan(&got))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "uploads/test-file.txt", got.Name())
}

func TestFileColumn_PostgresNullRow(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	files := sqlfile.NewFileColumn(newBackend(t))

	bound, err := sqlfile.Bind(nil)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO docs (id, attachment) VALUES (1, $1)`, bound)
	require.NoError(t, err)

	var got *stowage.File
	err = db.QueryRowContext(ctx, `SELECT attachment FROM docs WHERE id = 1`).Scan(files.Scan(&got))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestImageColumn_PostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	db := newPostgresDB(t)
	images := sqlfile.NewImageColumn(backend)

	bound, err := sqlfile.Bind(stowage.NewImage("uploads/pic.png", backend))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO docs (id, attachment) VALUES (1, $1)`, bound)
	require.NoError(t, err)

	var got *stowage.Image
	err = db.QueryRowContext(ctx, `SELECT attachment FROM docs WHERE id = 1`).Scan(images.Scan(&got))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "uploads/pic.png", got.Name())
}
