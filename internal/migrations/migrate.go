package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/ehc32/Cotizador-V1/internal/db"
)

//go:embed sql/*.sql
var embedded embed.FS

// Up runs all pending SQL migrations embedded in the binary.
func Up(ctx context.Context, database *sql.DB, driver db.Driver) ([]*goose.MigrationResult, error) {
	provider, err := newProvider(database, driver)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("run goose up migrations: %w", err)
	}

	return results, nil
}

// Version returns the current schema version.
func Version(ctx context.Context, database *sql.DB, driver db.Driver) (int64, error) {
	provider, err := newProvider(database, driver)
	if err != nil {
		return 0, err
	}

	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func newProvider(database *sql.DB, driver db.Driver) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedded, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	dialect := goose.DialectSQLite3
	if driver == db.Postgres {
		dialect = goose.DialectPostgres
	}

	provider, err := goose.NewProvider(dialect, database, fsys)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	return provider, nil
}
