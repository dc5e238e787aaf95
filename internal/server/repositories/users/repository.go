// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/internportal/internal/server/models"
)

// Repository is the user store. Email lookups are exact and case-sensitive;
// several users may share an email, in which case the lowest id wins.
type Repository interface {
	// Create assigns an id unless user.ID is already set. Reusing an
	// existing id returns common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	// Update returns common.ErrorNotFound when no row has user.ID.
	Update(ctx context.Context, user *models.User) error
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}
