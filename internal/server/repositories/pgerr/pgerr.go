// Package pgerr maps PostgreSQL driver errors onto common sentinels.
package pgerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/internportal/internal/common"
)

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Wrap turns unique violations into common.ErrorConflict and wraps
// everything else as a generic db error.
func Wrap(err error) error {
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", common.ErrorConflict, err)
	}
	return fmt.Errorf("db error: %w", err)
}
