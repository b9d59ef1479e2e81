package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dsn  string
		want Dialect
	}{
		{"postgres://u:p@localhost:5432/vault", DialectPostgres},
		{"postgresql://u:p@localhost/vault?sslmode=disable", DialectPostgres},
		{"vault.db", DialectSQLite},
		{"/var/lib/filevault/vault.db", DialectSQLite},
		{"file:vault?mode=memory", DialectSQLite},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DialectFor(tt.dsn), "dsn %q", tt.dsn)
	}
}

func TestOpen_SQLiteAppliesMigrations(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db, dialect, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.Equal(t, DialectSQLite, dialect)

	for _, table := range []string{"profiles", "files"} {
		var name string
		err = db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "expected table %s after migrations", table)
	}
}

func TestOpen_SQLiteIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db1, _, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, _, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db2.Close())
}
