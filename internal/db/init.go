// Package db opens the metadata database for filevault and applies the
// embedded goose migrations. Two backends are supported: a local SQLite
// file (default) and PostgreSQL for shared installs.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend a DSN resolved to. Repositories use it
// to pick placeholder syntax.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor inspects a DSN and decides which backend it belongs to.
// Anything that is not a postgres URL is treated as an SQLite file path.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the database identified by dsn and runs migrations.
// The returned handle is ready for use by the repositories.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	dialect := DialectFor(dsn)

	var driver string
	switch dialect {
	case DialectPostgres:
		driver = "pgx"
	default:
		driver = "sqlite"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, dialect, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("migration error: %w", err)
	}

	return db, dialect, nil
}

// RunMigrations sets up goose with the embedded migrations for the given
// dialect and applies everything that is pending.
func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	switch dialect {
	case DialectPostgres:
		goose.SetBaseFS(migrations.Postgres)
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		return goose.UpContext(ctx, db, "postgres")
	default:
		goose.SetBaseFS(migrations.SQLite)
		if err := goose.SetDialect("sqlite3"); err != nil {
			return err
		}
		return goose.UpContext(ctx, db, "sqlite")
	}
}
