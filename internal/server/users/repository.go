// Package users provides account storage, authentication, and the
// admin-only account management operations.
package users

import (
	"context"

	"github.com/wtg/vaultsync/internal/server/models"
)

// Repository is the account storage contract. Missing rows map to
// common.ErrNotFound, duplicate usernames to common.ErrAlreadyExists.
type Repository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	Create(ctx context.Context, u models.User) error
	Update(ctx context.Context, u models.User) error
	Count(ctx context.Context) (int, error)
}
