// Package repomanager hands out repositories bound to a pool or to an open
// transaction, and applies the embedded schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
	Entries(db dbx.DBTX) entries.Repository
}
