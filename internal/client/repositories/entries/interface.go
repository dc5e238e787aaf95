package entries

import (
	"context"

	"github.com/dmitrijs2005/internportal/internal/client/models"
)

// Repository describes the cache operations on Entry objects.
type Repository interface {
	// Upsert inserts an entry or overwrites the cached copy with the same id.
	Upsert(ctx context.Context, entry *models.Entry) error

	// GetAll returns cached entries, newest entry date first.
	GetAll(ctx context.Context) ([]models.Entry, error)

	// DeleteByID drops an entry. A missing id is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// Clear empties the cache.
	Clear(ctx context.Context) error
}
