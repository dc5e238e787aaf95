package client

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/internportal/internal/client/migrations"
	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/filex"
)

const cacheFile = "cache.db"

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local cache database under
// dirName and brings its schema up to date.
func InitDatabase(ctx context.Context, dirName string) (*sql.DB, error) {
	dir, err := filex.EnsureSubdDir(dirName)
	if err != nil {
		return nil, err
	}

	// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY.
	db, err := dbx.Open(ctx, "sqlite", filepath.Join(dir, cacheFile), dbx.PoolConfig{MaxOpenConns: 1})
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache migration error: %w", err)
	}
	return db, nil
}
