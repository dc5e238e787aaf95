// Package repotest opens throwaway databases with the server schema for
// repository and service tests.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/internportal/internal/dbx"
)

// sqliteSchema mirrors the goose migrations in a form SQLite accepts.
const sqliteSchema = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY,
    first_name    TEXT      NOT NULL DEFAULT '',
    last_name     TEXT      NOT NULL DEFAULT '',
    email         TEXT      NOT NULL,
    password_hash TEXT      NOT NULL,
    role          TEXT      NOT NULL DEFAULT 'User',
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE password_resets (
    id         INTEGER PRIMARY KEY,
    user_id    INTEGER   NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    token_hash TEXT      NOT NULL UNIQUE,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE data_entries (
    id             INTEGER PRIMARY KEY,
    user_id        INTEGER   NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    title          TEXT      NOT NULL,
    content        TEXT      NOT NULL DEFAULT '',
    entry_date     TIMESTAMP NOT NULL,
    attachment_key TEXT      NOT NULL DEFAULT '',
    created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

var seq atomic.Int64

// SQLite returns a private in-memory database with the schema applied. It
// is closed when the test ends.
func SQLite(t testing.TB) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	db, err := dbx.Open(context.Background(), "sqlite", dsn, dbx.PoolConfig{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	return db
}
