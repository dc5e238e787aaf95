// Package passwordresets declares storage for single-use password reset
// tickets. Tickets are looked up by the sha256 hex of the token.
package passwordresets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/internportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error)

	// FindByTokenHash returns common.ErrorNotFound for unknown hashes.
	FindByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error)

	// ConsumeByTokenHash deletes the ticket with tokenHash and reports how
	// many rows went. Zero means another caller already consumed it.
	ConsumeByTokenHash(ctx context.Context, tokenHash string) (int64, error)

	// DeleteByUser removes every ticket of userID and returns how many went.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	// DeleteExpired removes tickets that expired before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
