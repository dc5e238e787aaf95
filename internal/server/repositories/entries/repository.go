// Package entries persists the dated data entries users keep in the portal.
package entries

import (
	"context"

	"github.com/dmitrijs2005/internportal/internal/server/models"
)

// Repository scopes every read and delete by owner. Rows of other users
// behave exactly like missing rows.
type Repository interface {
	Create(ctx context.Context, entry *models.DataEntry) (*models.DataEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]models.DataEntry, error)
	Get(ctx context.Context, userID, id int64) (*models.DataEntry, error)
	Delete(ctx context.Context, userID, id int64) error
	SetAttachmentKey(ctx context.Context, userID, id int64, key string) error
}
